package exchange

import (
	"context"
	"sync"

	"github.com/TsigelnikovNikita/mySwap/internal/journal"
)

// Group is the set of pools that share custody collaborators. Pools of a
// group record their bookkeeping into the collaborators' journal and run
// one operation at a time, so rolling back an operation also rolls back
// whatever a transfer hook did to other pools of the group.
//
// Build the group on the collaborators' journal (custody.Bank.Journal).
// Every other writer of that journal must be serialized with the group's
// operations; custody.Bank.Atomic does that for bank writes.
type Group struct {
	mu      sync.Mutex
	journal *journal.Journal
}

// NewGroup returns a group recording into j. A nil j gets a private journal.
func NewGroup(j *journal.Journal) *Group {
	if j == nil {
		j = journal.New()
	}
	return &Group{journal: j}
}

// txn is the group operation in progress along a call chain. Pools that
// commit inside it publish their views once the outermost operation does.
type txn struct {
	touched []*Pool
}

type txnKey struct{ g *Group }

func (g *Group) current(ctx context.Context) *txn {
	t, _ := ctx.Value(txnKey{g}).(*txn)
	return t
}

// publish republishes every pool the transaction committed in.
func (t *txn) publish() {
	for _, p := range t.touched {
		p.publish()
	}
}
