// Package reserve holds the bookkeeping of a single pool: the base and
// token reserves, the total share supply and each provider's shares.
//
// The Ledger only does arithmetic and invariant checks. Pricing lives in
// cpmm and orchestration in exchange. Every mutation is journaled while a
// snapshot is open so a failed operation can be rolled back completely.
// A Ledger is not safe for concurrent use.
package reserve

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/TsigelnikovNikita/mySwap/internal/journal"
)

var (
	// ErrInsufficientReserve is returned when a debit exceeds the reserve.
	// Reaching it from a pool operation indicates a bookkeeping bug.
	ErrInsufficientReserve = errors.New("reserve: insufficient reserve")

	// ErrInsufficientShares is returned when burning or moving more shares
	// than a provider holds.
	ErrInsufficientShares = errors.New("reserve: insufficient shares")

	// ErrInvalidAmount is returned for negative amounts.
	ErrInvalidAmount = errors.New("reserve: amount must not be negative")

	// ErrInconsistentState is returned by Restore for a state that breaks
	// the ledger invariants.
	ErrInconsistentState = errors.New("reserve: inconsistent state")
)

// State is a detached copy of the ledger contents.
type State struct {
	BaseReserve  math.Int                    `json:"base_reserve"`
	TokenReserve math.Int                    `json:"token_reserve"`
	TotalShares  math.Int                    `json:"total_shares"`
	Shares       map[common.Address]math.Int `json:"shares"`
}

// Ledger tracks reserves and shares for one pool.
type Ledger struct {
	base   math.Int
	token  math.Int
	total  math.Int
	shares map[common.Address]math.Int

	journal *journal.Journal
}

// NewLedgerWithJournal returns an empty ledger recording into j.
func NewLedgerWithJournal(j *journal.Journal) *Ledger {
	return &Ledger{
		base:    math.ZeroInt(),
		token:   math.ZeroInt(),
		total:   math.ZeroInt(),
		shares:  make(map[common.Address]math.Int),
		journal: j,
	}
}

// --- Snapshots ---

// Snapshot opens a revision of the ledger journal.
func (l *Ledger) Snapshot() int { return l.journal.Snapshot() }

// RevertToSnapshot undoes all changes since id.
func (l *Ledger) RevertToSnapshot(id int) { l.journal.RevertToSnapshot(id) }

// DiscardSnapshot keeps all changes since id.
func (l *Ledger) DiscardSnapshot(id int) { l.journal.DiscardSnapshot(id) }

// --- Views ---

// GetReserves returns the base and token reserves.
func (l *Ledger) GetReserves() (base, token math.Int) {
	return l.base, l.token
}

// TotalShares returns the outstanding share supply.
func (l *Ledger) TotalShares() math.Int {
	return l.total
}

// SharesOf returns the shares held by provider, zero if none.
func (l *Ledger) SharesOf(provider common.Address) math.Int {
	if s, ok := l.shares[provider]; ok {
		return s
	}
	return math.ZeroInt()
}

// Empty reports whether no shares are outstanding.
func (l *Ledger) Empty() bool {
	return l.total.IsZero()
}

// State returns a detached copy of the ledger.
func (l *Ledger) State() State {
	shares := make(map[common.Address]math.Int, len(l.shares))
	for p, s := range l.shares {
		shares[p] = s
	}
	return State{
		BaseReserve:  l.base,
		TokenReserve: l.token,
		TotalShares:  l.total,
		Shares:       shares,
	}
}

// Restore replaces the ledger contents with st after checking that the
// shares sum to the total and that reserves are empty exactly when no
// shares are outstanding. It is not journaled.
func (l *Ledger) Restore(st State) error {
	sum := math.ZeroInt()
	for p, s := range st.Shares {
		if s.IsNil() || s.IsNegative() {
			return fmt.Errorf("%w: negative shares for %s", ErrInconsistentState, p.Hex())
		}
		sum = sum.Add(s)
	}
	if st.BaseReserve.IsNil() || st.TokenReserve.IsNil() || st.TotalShares.IsNil() {
		return fmt.Errorf("%w: missing amounts", ErrInconsistentState)
	}
	if st.BaseReserve.IsNegative() || st.TokenReserve.IsNegative() {
		return fmt.Errorf("%w: negative reserve", ErrInconsistentState)
	}
	if !sum.Equal(st.TotalShares) {
		return fmt.Errorf("%w: shares sum to %s, total is %s", ErrInconsistentState, sum, st.TotalShares)
	}
	if st.TotalShares.IsPositive() && (st.BaseReserve.IsZero() || st.TokenReserve.IsZero()) {
		return fmt.Errorf("%w: shares outstanding with an empty reserve", ErrInconsistentState)
	}
	if st.TotalShares.IsZero() && !(st.BaseReserve.IsZero() && st.TokenReserve.IsZero()) {
		return fmt.Errorf("%w: reserves held without shares", ErrInconsistentState)
	}

	l.base, l.token, l.total = st.BaseReserve, st.TokenReserve, st.TotalShares
	l.shares = make(map[common.Address]math.Int, len(st.Shares))
	for p, s := range st.Shares {
		if s.IsPositive() {
			l.shares[p] = s
		}
	}
	return nil
}

// --- Reserve mutations ---

// CreditBase adds amount to the base reserve.
func (l *Ledger) CreditBase(amount math.Int) error {
	return l.credit(&l.base, amount)
}

// DebitBase subtracts amount from the base reserve.
func (l *Ledger) DebitBase(amount math.Int) error {
	return l.debit(&l.base, amount, "base")
}

// CreditToken adds amount to the token reserve.
func (l *Ledger) CreditToken(amount math.Int) error {
	return l.credit(&l.token, amount)
}

// DebitToken subtracts amount from the token reserve.
func (l *Ledger) DebitToken(amount math.Int) error {
	return l.debit(&l.token, amount, "token")
}

func (l *Ledger) credit(field *math.Int, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	next, err := field.SafeAdd(amount)
	if err != nil {
		return fmt.Errorf("reserve: credit %s: %w", amount, err)
	}
	l.set(field, next)
	return nil
}

func (l *Ledger) debit(field *math.Int, amount math.Int, side string) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if amount.GT(*field) {
		return fmt.Errorf("%w: %s reserve %s, debit %s", ErrInsufficientReserve, side, *field, amount)
	}
	l.set(field, field.Sub(amount))
	return nil
}

func (l *Ledger) set(field *math.Int, v math.Int) {
	prev := *field
	*field = v
	l.journal.Append(func() { *field = prev })
}

// --- Share mutations ---

// MintShares credits provider with amount new shares.
func (l *Ledger) MintShares(provider common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	total, err := l.total.SafeAdd(amount)
	if err != nil {
		return fmt.Errorf("reserve: mint %s: %w", amount, err)
	}
	l.set(&l.total, total)
	l.setShares(provider, l.SharesOf(provider).Add(amount))
	return nil
}

// BurnShares destroys amount of provider's shares.
func (l *Ledger) BurnShares(provider common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	held := l.SharesOf(provider)
	if amount.GT(held) {
		return fmt.Errorf("%w: %s holds %s, burn %s", ErrInsufficientShares, provider.Hex(), held, amount)
	}
	l.set(&l.total, l.total.Sub(amount))
	l.setShares(provider, held.Sub(amount))
	return nil
}

// TransferShares moves amount shares from one provider to another. The
// total supply is unchanged.
func (l *Ledger) TransferShares(from, to common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	held := l.SharesOf(from)
	if amount.GT(held) {
		return fmt.Errorf("%w: %s holds %s, transfer %s", ErrInsufficientShares, from.Hex(), held, amount)
	}
	if from == to {
		return nil
	}
	l.setShares(from, held.Sub(amount))
	l.setShares(to, l.SharesOf(to).Add(amount))
	return nil
}

// setShares writes a provider balance, dropping zero entries.
func (l *Ledger) setShares(provider common.Address, v math.Int) {
	prev, had := l.shares[provider]
	if v.IsZero() {
		delete(l.shares, provider)
	} else {
		l.shares[provider] = v
	}
	l.journal.Append(func() {
		if had {
			l.shares[provider] = prev
		} else {
			delete(l.shares, provider)
		}
	})
}
