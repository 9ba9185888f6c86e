package custody

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Native is a view of the bank's base-asset ledger.
type Native struct {
	bank *Bank
}

// BalanceOf returns the native balance of owner.
func (n *Native) BalanceOf(owner common.Address) math.Int {
	n.bank.mu.Lock()
	defer n.bank.mu.Unlock()
	return balanceIn(n.bank.native, owner)
}

// Credit mints amount of native value to owner. Used for funding accounts
// and restoring custody at startup.
func (n *Native) Credit(owner common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	n.bank.mu.Lock()
	defer n.bank.mu.Unlock()

	next, err := balanceIn(n.bank.native, owner).SafeAdd(amount)
	if err != nil {
		return fmt.Errorf("custody: credit %s: %w", owner.Hex(), err)
	}
	n.bank.setBalance(n.bank.native, owner, next)
	return nil
}

// SetReceiver installs a receive hook for owner. A nil hook removes it.
func (n *Native) SetReceiver(owner common.Address, hook Receiver) {
	n.bank.mu.Lock()
	defer n.bank.mu.Unlock()
	if hook == nil {
		delete(n.bank.receivers, owner)
		return
	}
	n.bank.receivers[owner] = hook
}

// Send moves amount from one account to another, then runs the recipient's
// receive hook outside the bank lock. A hook error reverts the send.
func (n *Native) Send(ctx context.Context, from, to common.Address, amount math.Int) error {
	b := n.bank

	b.mu.Lock()
	id := b.journal.Snapshot()
	err := b.move(b.native, from, to, amount)
	hook := b.receivers[to]
	b.mu.Unlock()

	if err == nil && hook != nil {
		if herr := hook(ctx, from, amount); herr != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRejected, to.Hex(), herr)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.journal.RevertToSnapshot(id)
		return err
	}
	b.journal.DiscardSnapshot(id)
	return nil
}

// Snapshot, RevertToSnapshot and DiscardSnapshot delegate to the bank so a
// pool can include native custody in its rollback.
func (n *Native) Snapshot() int           { return n.bank.Snapshot() }
func (n *Native) RevertToSnapshot(id int) { n.bank.RevertToSnapshot(id) }
func (n *Native) DiscardSnapshot(id int)  { n.bank.DiscardSnapshot(id) }
