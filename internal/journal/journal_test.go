package journal

import "testing"

func TestAppend_IgnoredWithoutSnapshot(t *testing.T) {
	j := New()
	j.Append(func() { t.Fatal("undo must not run") })
	if j.Len() != 0 {
		t.Fatalf("expected no entries, got %d", j.Len())
	}
	j.RevertToSnapshot(0)
}

func TestRevertToSnapshot_ReplaysNewestFirst(t *testing.T) {
	j := New()
	v := 1

	id := j.Snapshot()
	old := v
	v = 2
	j.Append(func() { v = old })
	old2 := v
	v = 3
	j.Append(func() { v = old2 })

	j.RevertToSnapshot(id)
	if v != 1 {
		t.Errorf("expected 1 after revert, got %d", v)
	}
	j.Append(func() { t.Fatal("undo recorded after the snapshot closed") })
	if j.Len() != 0 {
		t.Errorf("snapshot should be closed after revert, got %d entries", j.Len())
	}
}

func TestNestedSnapshots(t *testing.T) {
	j := New()
	v := 0
	set := func(n int) {
		prev := v
		v = n
		j.Append(func() { v = prev })
	}

	outer := j.Snapshot()
	set(1)
	inner := j.Snapshot()
	set(2)
	j.DiscardSnapshot(inner)
	if v != 2 {
		t.Fatalf("discard must keep changes, got %d", v)
	}
	if j.Len() != 2 {
		t.Fatalf("entries must survive while outer snapshot is open, got %d", j.Len())
	}

	j.RevertToSnapshot(outer)
	if v != 0 {
		t.Errorf("outer revert should undo discarded inner changes, got %d", v)
	}
}

func TestDiscardSnapshot_TrimsWhenClosed(t *testing.T) {
	j := New()
	id := j.Snapshot()
	j.Append(func() {})
	j.DiscardSnapshot(id)
	j.Append(func() {})
	if j.Len() != 0 {
		t.Errorf("expected closed, empty journal, got len=%d", j.Len())
	}
}

func TestRevertToSnapshot_UnknownID(t *testing.T) {
	j := New()
	v := 0
	id := j.Snapshot()
	j.Append(func() { v = -1 })
	j.RevertToSnapshot(id + 5)
	if v != 0 || j.Len() != 1 {
		t.Errorf("unknown id must be ignored, v=%d len=%d", v, j.Len())
	}
}
