// Package exchange implements a constant-product liquidity pool between the
// native base asset and one token.
//
// A Pool commits its reserve bookkeeping before any external transfer and
// treats each public operation as all-or-nothing: the reserve ledger and
// every journaled collaborator are snapshotted on entry and reverted if any
// step fails. Writers are serialized per Group, and a call that re-enters
// the same pool from inside one of its transfers is rejected. Views show
// state published when the outermost operation commits.
//
// Base value a caller "attaches" to AddLiquidity or SwapBaseForToken must
// already sit in the pool's custody account when the call is made.
package exchange

import (
	"context"
	"fmt"
	"sync/atomic"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
	"github.com/TsigelnikovNikita/mySwap/internal/reserve"
)

// TokenLedger is the token collaborator of a pool.
type TokenLedger interface {
	BalanceOf(owner common.Address) math.Int
	Transfer(ctx context.Context, from, to common.Address, amount math.Int) error
	TransferFrom(ctx context.Context, spender, owner, to common.Address, amount math.Int) error
}

// NativeSender moves base value out of the pool's custody account.
type NativeSender interface {
	Send(ctx context.Context, from, to common.Address, amount math.Int) error
}

// Journaled is implemented by collaborators whose changes can be rolled
// back together with the pool.
type Journaled interface {
	Snapshot() int
	RevertToSnapshot(id int)
	DiscardSnapshot(id int)
}

// Config describes a pool at construction. Fee and Token are fixed for the
// lifetime of the pool. Pools sharing Token or Native collaborators must
// share a Group; a nil Group gives the pool a private one.
type Config struct {
	Address     common.Address // custody account of the pool
	Owner       common.Address
	TokenSymbol string
	Token       TokenLedger
	Native      NativeSender
	Fee         cpmm.Fee
	Group       *Group
}

// Info is a point-in-time description of a pool.
type Info struct {
	Address      common.Address `json:"address"`
	Owner        common.Address `json:"owner"`
	TokenSymbol  string         `json:"token"`
	Fee          cpmm.Fee       `json:"fee"`
	BaseReserve  math.Int       `json:"base_reserve"`
	TokenReserve math.Int       `json:"token_reserve"`
	TotalShares  math.Int       `json:"total_shares"`
}

// Pool is a single ETH/token constant-product pool.
type Pool struct {
	addr   common.Address
	owner  common.Address
	symbol string
	token  TokenLedger
	native NativeSender
	mm     *cpmm.MarketMaker

	group  *Group
	ledger *reserve.Ledger

	// published is replaced when an operation commits; views never lock.
	published atomic.Pointer[reserve.State]
}

// New creates an empty pool.
func New(cfg Config) (*Pool, error) {
	if cfg.Token == nil || cfg.Native == nil {
		return nil, fmt.Errorf("exchange: token ledger and native sender are required")
	}
	mm, err := cpmm.NewMarketMaker(cfg.Fee)
	if err != nil {
		return nil, err
	}
	g := cfg.Group
	if g == nil {
		g = NewGroup(nil)
	}
	p := &Pool{
		addr:   cfg.Address,
		owner:  cfg.Owner,
		symbol: cfg.TokenSymbol,
		token:  cfg.Token,
		native: cfg.Native,
		mm:     mm,
		group:  g,
		ledger: reserve.NewLedgerWithJournal(g.journal),
	}
	p.publish()
	return p, nil
}

// Address returns the pool's custody account.
func (p *Pool) Address() common.Address { return p.addr }

// Owner returns the account that created the pool.
func (p *Pool) Owner() common.Address { return p.owner }

// TokenSymbol returns the symbol of the pool token.
func (p *Pool) TokenSymbol() string { return p.symbol }

// Fee returns the swap fee.
func (p *Pool) Fee() cpmm.Fee { return p.mm.Fee() }

// --- Views ---

func (p *Pool) view() *reserve.State {
	return p.published.Load()
}

// GetReserves returns the committed base and token reserves.
func (p *Pool) GetReserves() (base, token math.Int) {
	st := p.view()
	return st.BaseReserve, st.TokenReserve
}

// ReservesAt returns the reserves as seen from ctx. Inside an operation of
// the pool's group, such as from a transfer hook, it reads the bookkeeping
// that operation has already committed; elsewhere it equals GetReserves.
func (p *Pool) ReservesAt(ctx context.Context) (base, token math.Int) {
	if p.group.current(ctx) != nil {
		return p.ledger.GetReserves()
	}
	return p.GetReserves()
}

// TokenReserve returns the committed token reserve.
func (p *Pool) TokenReserve() math.Int {
	return p.view().TokenReserve
}

// TotalShares returns the outstanding share supply.
func (p *Pool) TotalShares() math.Int {
	return p.view().TotalShares
}

// SharesOf returns provider's shares.
func (p *Pool) SharesOf(provider common.Address) math.Int {
	if s, ok := p.view().Shares[provider]; ok {
		return s
	}
	return math.ZeroInt()
}

// State returns a detached copy of the committed pool state.
func (p *Pool) State() reserve.State {
	st := p.view()
	shares := make(map[common.Address]math.Int, len(st.Shares))
	for k, v := range st.Shares {
		shares[k] = v
	}
	out := *st
	out.Shares = shares
	return out
}

// Info describes the pool.
func (p *Pool) Info() Info {
	st := p.view()
	return Info{
		Address:      p.addr,
		Owner:        p.owner,
		TokenSymbol:  p.symbol,
		Fee:          p.mm.Fee(),
		BaseReserve:  st.BaseReserve,
		TokenReserve: st.TokenReserve,
		TotalShares:  st.TotalShares,
	}
}

// GetTokenAmount quotes the tokens received for baseAmountIn.
func (p *Pool) GetTokenAmount(baseAmountIn math.Int) (math.Int, error) {
	if !baseAmountIn.IsPositive() {
		return math.ZeroInt(), ErrZeroAmount
	}
	base, token := p.GetReserves()
	return p.mm.OutputAmount(baseAmountIn, base, token)
}

// GetEthAmount quotes the base received for tokenAmountIn.
func (p *Pool) GetEthAmount(tokenAmountIn math.Int) (math.Int, error) {
	if !tokenAmountIn.IsPositive() {
		return math.ZeroInt(), ErrZeroAmount
	}
	base, token := p.GetReserves()
	return p.mm.OutputAmount(tokenAmountIn, token, base)
}

// Restore replaces the pool state, typically from persistence at startup.
func (p *Pool) Restore(st reserve.State) error {
	p.group.mu.Lock()
	defer p.group.mu.Unlock()

	if err := p.ledger.Restore(st); err != nil {
		return err
	}
	p.publish()
	return nil
}

// publish exposes the ledger's current state to views. Callers hold the
// group lock or own the pool exclusively.
func (p *Pool) publish() {
	st := p.ledger.State()
	p.published.Store(&st)
}
