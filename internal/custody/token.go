package custody

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Token is an ERC-20 style ledger: balances, allowances and a total supply.
type Token struct {
	bank       *Bank
	symbol     string
	decimals   uint8
	supply     math.Int
	balances   map[common.Address]math.Int
	allowances map[common.Address]map[common.Address]math.Int // owner -> spender -> amount
}

// Symbol returns the ticker the token was registered under.
func (t *Token) Symbol() string { return t.symbol }

// Decimals returns the display precision.
func (t *Token) Decimals() uint8 { return t.decimals }

// TotalSupply returns the minted supply.
func (t *Token) TotalSupply() math.Int {
	t.bank.mu.Lock()
	defer t.bank.mu.Unlock()
	return t.supply
}

// BalanceOf returns owner's balance.
func (t *Token) BalanceOf(owner common.Address) math.Int {
	t.bank.mu.Lock()
	defer t.bank.mu.Unlock()
	return balanceIn(t.balances, owner)
}

// Allowance returns how much spender may still move on owner's behalf.
func (t *Token) Allowance(owner, spender common.Address) math.Int {
	t.bank.mu.Lock()
	defer t.bank.mu.Unlock()
	return balanceIn(t.allowances[owner], spender)
}

// Mint creates amount new tokens for to.
func (t *Token) Mint(to common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	t.bank.mu.Lock()
	defer t.bank.mu.Unlock()

	supply, err := t.supply.SafeAdd(amount)
	if err != nil {
		return fmt.Errorf("custody: mint %s: %w", t.symbol, err)
	}
	prev := t.supply
	t.supply = supply
	t.bank.journal.Append(func() { t.supply = prev })
	t.bank.setBalance(t.balances, to, balanceIn(t.balances, to).Add(amount))
	return nil
}

// Approve sets spender's allowance over owner's tokens.
func (t *Token) Approve(owner, spender common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	t.bank.mu.Lock()
	defer t.bank.mu.Unlock()

	m, ok := t.allowances[owner]
	if !ok {
		m = make(map[common.Address]math.Int)
		t.allowances[owner] = m
	}
	t.bank.setBalance(m, spender, amount)
	return nil
}

// Transfer moves amount from one holder to another.
func (t *Token) Transfer(_ context.Context, from, to common.Address, amount math.Int) error {
	t.bank.mu.Lock()
	defer t.bank.mu.Unlock()

	if err := t.bank.move(t.balances, from, to, amount); err != nil {
		return fmt.Errorf("%s transfer: %w", t.symbol, err)
	}
	return nil
}

// TransferFrom moves amount from owner to to on behalf of spender,
// consuming allowance.
func (t *Token) TransferFrom(_ context.Context, spender, owner, to common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	t.bank.mu.Lock()
	defer t.bank.mu.Unlock()

	allowed := balanceIn(t.allowances[owner], spender)
	if amount.GT(allowed) {
		return fmt.Errorf("%w: %s may move %s of %s's %s, needs %s",
			ErrInsufficientAllowance, spender.Hex(), allowed, owner.Hex(), t.symbol, amount)
	}
	if err := t.bank.move(t.balances, owner, to, amount); err != nil {
		return fmt.Errorf("%s transferFrom: %w", t.symbol, err)
	}
	t.bank.setBalance(t.allowances[owner], spender, allowed.Sub(amount))
	return nil
}

// Snapshot, RevertToSnapshot and DiscardSnapshot delegate to the bank.
func (t *Token) Snapshot() int           { return t.bank.Snapshot() }
func (t *Token) RevertToSnapshot(id int) { t.bank.RevertToSnapshot(id) }
func (t *Token) DiscardSnapshot(id int)  { t.bank.DiscardSnapshot(id) }
