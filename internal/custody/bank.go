// Package custody provides in-process implementations of the asset ledgers a
// pool depends on: native base-asset balances with optional receive hooks,
// and ERC-20 style token ledgers with allowances.
//
// All ledgers of a Bank share one mutex and one undo journal, so a single
// snapshot covers every balance the bank holds. Snapshots assume a single
// writer; Atomic provides that by serializing callers.
package custody

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/TsigelnikovNikita/mySwap/internal/journal"
)

var (
	// ErrInsufficientBalance is returned when a transfer exceeds the sender's balance.
	ErrInsufficientBalance = errors.New("custody: insufficient balance")

	// ErrInsufficientAllowance is returned when transferFrom exceeds the approved amount.
	ErrInsufficientAllowance = errors.New("custody: insufficient allowance")

	// ErrInvalidAmount is returned for negative amounts.
	ErrInvalidAmount = errors.New("custody: amount must not be negative")

	// ErrRejected is returned when a receive hook refuses incoming value.
	ErrRejected = errors.New("custody: recipient rejected transfer")

	// ErrUnknownToken is returned when looking up an unregistered symbol.
	ErrUnknownToken = errors.New("custody: unknown token")

	// ErrTokenExists is returned when registering a symbol twice.
	ErrTokenExists = errors.New("custody: token already registered")
)

// Receiver is invoked after native value has been credited to its owner.
// Returning an error rejects the transfer; the credit and anything the hook
// changed in the bank are rolled back.
type Receiver func(ctx context.Context, from common.Address, amount math.Int) error

// Bank owns the native ledger and every registered token ledger.
type Bank struct {
	txMu sync.Mutex // held by Atomic

	mu        sync.Mutex
	journal   *journal.Journal
	native    map[common.Address]math.Int
	receivers map[common.Address]Receiver
	tokens    map[string]*Token
}

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{
		journal:   journal.New(),
		native:    make(map[common.Address]math.Int),
		receivers: make(map[common.Address]Receiver),
		tokens:    make(map[string]*Token),
	}
}

// --- Snapshots ---

// Snapshot opens a revision covering every ledger in the bank.
func (b *Bank) Snapshot() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.journal.Snapshot()
}

// RevertToSnapshot undoes every bank change made since id.
func (b *Bank) RevertToSnapshot(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.journal.RevertToSnapshot(id)
}

// DiscardSnapshot keeps the changes made since id.
func (b *Bank) DiscardSnapshot(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.journal.DiscardSnapshot(id)
}

// Journal returns the undo log shared by every ledger in the bank. State
// recorded into it is rolled back together with the bank, so its writers
// must be serialized with the bank's own (see Atomic).
func (b *Bank) Journal() *journal.Journal {
	return b.journal
}

// Atomic runs fn as one unit: if fn fails, every bank change it made is
// reverted. Calls are serialized. fn must not call Atomic itself.
func (b *Bank) Atomic(fn func() error) error {
	b.txMu.Lock()
	defer b.txMu.Unlock()

	id := b.Snapshot()
	if err := fn(); err != nil {
		b.RevertToSnapshot(id)
		return err
	}
	b.DiscardSnapshot(id)
	return nil
}

// --- Native ledger ---

// Native returns the native base-asset ledger.
func (b *Bank) Native() *Native {
	return &Native{bank: b}
}

// --- Token registry ---

// RegisterToken creates an empty token ledger for symbol.
func (b *Bank) RegisterToken(symbol string, decimals uint8) (*Token, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.tokens[symbol]; ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenExists, symbol)
	}
	t := &Token{
		bank:       b,
		symbol:     symbol,
		decimals:   decimals,
		supply:     math.ZeroInt(),
		balances:   make(map[common.Address]math.Int),
		allowances: make(map[common.Address]map[common.Address]math.Int),
	}
	b.tokens[symbol] = t
	return t, nil
}

// Token returns the ledger for symbol.
func (b *Bank) Token(symbol string) (*Token, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
	}
	return t, nil
}

// Tokens returns all registered tokens ordered by symbol.
func (b *Bank) Tokens() []*Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Token, 0, len(b.tokens))
	for _, t := range b.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].symbol < out[j].symbol })
	return out
}

// --- helpers (callers hold b.mu) ---

func balanceIn(m map[common.Address]math.Int, who common.Address) math.Int {
	if v, ok := m[who]; ok {
		return v
	}
	return math.ZeroInt()
}

// setBalance writes v, dropping zero entries, and journals the old value.
func (b *Bank) setBalance(m map[common.Address]math.Int, who common.Address, v math.Int) {
	prev, had := m[who]
	if v.IsZero() {
		delete(m, who)
	} else {
		m[who] = v
	}
	b.journal.Append(func() {
		if had {
			m[who] = prev
		} else {
			delete(m, who)
		}
	})
}

// move transfers amount between two entries of m.
func (b *Bank) move(m map[common.Address]math.Int, from, to common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	have := balanceIn(m, from)
	if amount.GT(have) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), have, amount)
	}
	if from == to || amount.IsZero() {
		return nil
	}
	credited, err := balanceIn(m, to).SafeAdd(amount)
	if err != nil {
		return fmt.Errorf("custody: credit %s: %w", to.Hex(), err)
	}
	b.setBalance(m, from, have.Sub(amount))
	b.setBalance(m, to, credited)
	return nil
}
