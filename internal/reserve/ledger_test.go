package reserve

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TsigelnikovNikita/mySwap/internal/journal"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func newLedger() *Ledger {
	return NewLedgerWithJournal(journal.New())
}

func TestLedger_StartsEmpty(t *testing.T) {
	l := newLedger()
	base, token := l.GetReserves()
	assert.True(t, base.IsZero())
	assert.True(t, token.IsZero())
	assert.True(t, l.Empty())
	assert.True(t, l.SharesOf(alice).IsZero())
}

func TestLedger_CreditDebit(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.CreditBase(math.NewInt(100)))
	require.NoError(t, l.CreditToken(math.NewInt(200)))
	require.NoError(t, l.DebitBase(math.NewInt(40)))
	require.NoError(t, l.DebitToken(math.NewInt(200)))

	base, token := l.GetReserves()
	assert.Equal(t, "60", base.String())
	assert.True(t, token.IsZero())
}

func TestLedger_DebitBelowZero(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.CreditBase(math.NewInt(5)))

	err := l.DebitBase(math.NewInt(6))
	require.ErrorIs(t, err, ErrInsufficientReserve)
	err = l.DebitToken(math.NewInt(1))
	require.ErrorIs(t, err, ErrInsufficientReserve)

	base, _ := l.GetReserves()
	assert.Equal(t, "5", base.String())
}

func TestLedger_NegativeAmounts(t *testing.T) {
	l := newLedger()
	neg := math.NewInt(-1)
	assert.ErrorIs(t, l.CreditBase(neg), ErrInvalidAmount)
	assert.ErrorIs(t, l.DebitToken(neg), ErrInvalidAmount)
	assert.ErrorIs(t, l.MintShares(alice, neg), ErrInvalidAmount)
	assert.ErrorIs(t, l.BurnShares(alice, neg), ErrInvalidAmount)
	assert.ErrorIs(t, l.TransferShares(alice, bob, neg), ErrInvalidAmount)
}

func TestLedger_MintBurnKeepsTotal(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.MintShares(alice, math.NewInt(70)))
	require.NoError(t, l.MintShares(bob, math.NewInt(30)))
	assert.Equal(t, "100", l.TotalShares().String())

	require.NoError(t, l.BurnShares(alice, math.NewInt(70)))
	assert.Equal(t, "30", l.TotalShares().String())

	st := l.State()
	_, ok := st.Shares[alice]
	assert.False(t, ok, "zero balances must be dropped")
	assert.Equal(t, "30", st.Shares[bob].String())
}

func TestLedger_BurnTooMany(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.MintShares(alice, math.NewInt(10)))
	err := l.BurnShares(alice, math.NewInt(11))
	require.ErrorIs(t, err, ErrInsufficientShares)
	require.ErrorIs(t, l.BurnShares(bob, math.NewInt(1)), ErrInsufficientShares)
	assert.Equal(t, "10", l.TotalShares().String())
}

func TestLedger_TransferShares(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.MintShares(alice, math.NewInt(10)))

	require.NoError(t, l.TransferShares(alice, bob, math.NewInt(4)))
	assert.Equal(t, "6", l.SharesOf(alice).String())
	assert.Equal(t, "4", l.SharesOf(bob).String())
	assert.Equal(t, "10", l.TotalShares().String())

	require.ErrorIs(t, l.TransferShares(bob, alice, math.NewInt(5)), ErrInsufficientShares)

	require.NoError(t, l.TransferShares(alice, alice, math.NewInt(6)))
	assert.Equal(t, "6", l.SharesOf(alice).String())
}

func TestLedger_RevertRestoresEverything(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.CreditBase(math.NewInt(100)))
	require.NoError(t, l.CreditToken(math.NewInt(200)))
	require.NoError(t, l.MintShares(alice, math.NewInt(100)))
	before := l.State()

	id := l.Snapshot()
	require.NoError(t, l.CreditBase(math.NewInt(10)))
	require.NoError(t, l.DebitToken(math.NewInt(18)))
	require.NoError(t, l.TransferShares(alice, bob, math.NewInt(100)))
	require.NoError(t, l.MintShares(bob, math.NewInt(5)))
	l.RevertToSnapshot(id)

	assert.Equal(t, before, l.State())
}

func TestLedger_DiscardKeepsChanges(t *testing.T) {
	l := newLedger()
	id := l.Snapshot()
	require.NoError(t, l.CreditBase(math.NewInt(1)))
	l.DiscardSnapshot(id)

	base, _ := l.GetReserves()
	assert.Equal(t, "1", base.String())
}

func TestLedger_Restore(t *testing.T) {
	l := newLedger()
	st := State{
		BaseReserve:  math.NewInt(100),
		TokenReserve: math.NewInt(200),
		TotalShares:  math.NewInt(100),
		Shares:       map[common.Address]math.Int{alice: math.NewInt(60), bob: math.NewInt(40)},
	}
	require.NoError(t, l.Restore(st))
	assert.Equal(t, "60", l.SharesOf(alice).String())

	bad := st
	bad.TotalShares = math.NewInt(99)
	require.ErrorIs(t, l.Restore(bad), ErrInconsistentState)

	drained := st
	drained.TokenReserve = math.ZeroInt()
	require.ErrorIs(t, l.Restore(drained), ErrInconsistentState)
}
