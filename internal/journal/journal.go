// Package journal provides an undo log with nested snapshots. State owners
// append an undo closure for every mutation made while a snapshot is open;
// reverting replays the closures newest-first. It is the same revision
// scheme go-ethereum's StateDB uses, reduced to closures.
//
// A Journal is not safe for concurrent use. Its owner serializes access.
package journal

// Journal records undo operations between Snapshot and Revert/Discard.
type Journal struct {
	entries   []func()
	revisions []int // entry index at each open snapshot
}

// New returns an empty journal.
func New() *Journal {
	return &Journal{}
}

// Snapshot opens a revision and returns its id.
func (j *Journal) Snapshot() int {
	j.revisions = append(j.revisions, len(j.entries))
	return len(j.revisions) - 1
}

// Append records an undo closure. Outside any snapshot it is dropped.
func (j *Journal) Append(undo func()) {
	if len(j.revisions) == 0 {
		return
	}
	j.entries = append(j.entries, undo)
}

// RevertToSnapshot undoes every change made since snapshot id was taken and
// closes it along with any snapshot opened after it. Unknown ids are ignored.
func (j *Journal) RevertToSnapshot(id int) {
	if id < 0 || id >= len(j.revisions) {
		return
	}
	mark := j.revisions[id]
	for i := len(j.entries) - 1; i >= mark; i-- {
		j.entries[i]()
	}
	j.entries = j.entries[:mark]
	j.revisions = j.revisions[:id]
}

// DiscardSnapshot closes snapshot id (and any later one) keeping its
// changes. Entries are retained while an outer snapshot may still revert
// them.
func (j *Journal) DiscardSnapshot(id int) {
	if id < 0 || id >= len(j.revisions) {
		return
	}
	j.revisions = j.revisions[:id]
	if len(j.revisions) == 0 {
		j.entries = j.entries[:0]
	}
}

// Len returns the number of pending undo entries.
func (j *Journal) Len() int {
	return len(j.entries)
}
