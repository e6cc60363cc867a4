package habitlist

import (
	"reflect"
	"testing"

	"planner-cli/internal/model"
)

func abcd() []model.Habit {
	return []model.Habit{
		{Name: "A", Order: 0},
		{Name: "B", Order: 1},
		{Name: "C", Order: 2},
		{Name: "D", Order: 3},
	}
}

func TestMove_ReindexesWholeSequence(t *testing.T) {
	t.Parallel()

	in := abcd()
	got := Move(in, 0, 2)
	want := []model.Habit{
		{Name: "B", Order: 0},
		{Name: "C", Order: 1},
		{Name: "A", Order: 2},
		{Name: "D", Order: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
	if !reflect.DeepEqual(in, abcd()) {
		t.Fatalf("expected input untouched; got %v", in)
	}
}

func TestMove_AcrossCompletionBuckets(t *testing.T) {
	t.Parallel()

	seq := []model.Habit{
		{Name: "A", Order: 4},
		{Name: "B", Order: 7},
		{Name: "C", Completed: true, Order: 1},
	}
	got := Move(seq, 2, 0)
	if names := Names(got); !reflect.DeepEqual(names, []string{"C", "A", "B"}) {
		t.Fatalf("unexpected names %v", names)
	}
	for i, h := range got {
		if h.Order != i {
			t.Fatalf("expected order %d for %s; got %d", i, h.Name, h.Order)
		}
	}
}

func TestDrag_CommitCallsReorderWithMovedNames(t *testing.T) {
	t.Parallel()

	c := newFakeClient(abcd()...)
	s := loaded(t, c)

	var d Drag
	d.Start(0)
	if d.State().Phase != PhaseDragging || d.State().Source != 0 {
		t.Fatalf("unexpected state after start %+v", d.State())
	}
	d.Enter(1)
	d.Enter(2)
	if st := d.State(); st.Phase != PhaseDragOver || st.Target != 2 {
		t.Fatalf("expected drag over 2; got %+v", st)
	}
	settle(t, s, d.Drop(s))

	if d.Active() {
		t.Fatalf("expected idle after drop")
	}
	want := []string{"fetch", "reorder [B C A D]", "fetch"}
	if got := c.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected calls %v; got %v", want, got)
	}
	for i, h := range s.Ordered() {
		if h.Order != i {
			t.Fatalf("expected reloaded order %d for %s; got %d", i, h.Name, h.Order)
		}
	}
}

func TestDrag_SameIndexDropIsDiscarded(t *testing.T) {
	t.Parallel()

	c := newFakeClient(abcd()...)
	s := loaded(t, c)

	var d Drag
	d.Start(1)
	d.Enter(1)
	if cmd := d.Drop(s); cmd != nil {
		t.Fatalf("expected no command for a same-index drop")
	}
	if d.Active() {
		t.Fatalf("expected idle after drop")
	}
	if got := c.Calls(); len(got) != 1 {
		t.Fatalf("expected no backend call; got %v", got)
	}
}

func TestDrag_DiscardsWithoutTarget(t *testing.T) {
	t.Parallel()

	s := loaded(t, newFakeClient(abcd()...))

	var d Drag
	if cmd := d.Drop(s); cmd != nil {
		t.Fatalf("expected idle drop to do nothing")
	}
	d.Start(0)
	if cmd := d.Drop(s); cmd != nil {
		t.Fatalf("expected drop without a target to do nothing")
	}
	d.Start(0)
	d.Enter(9)
	if cmd := d.Drop(s); cmd != nil {
		t.Fatalf("expected out-of-range target to be discarded")
	}
}

func TestDrag_EnterIgnoredWhileIdleAndCancelResets(t *testing.T) {
	t.Parallel()

	var d Drag
	d.Enter(3)
	if d.Active() {
		t.Fatalf("expected enter to be ignored while idle")
	}
	d.Start(2)
	d.Enter(0)
	d.Cancel()
	if d.State() != (DragState{}) {
		t.Fatalf("expected idle state after cancel; got %+v", d.State())
	}
}

func TestDrag_FailedCommitStillIdle(t *testing.T) {
	t.Parallel()

	c := newFakeClient(abcd()...)
	c.errs["reorder"] = errBackendDown
	l := NewList(loaded(t, c))

	if !l.StartDrag(3) {
		t.Fatalf("expected drag to start")
	}
	l.Drag.Enter(0)
	settle(t, l, l.Drag.Drop(l.Store))

	if l.Interaction() != Browsing {
		t.Fatalf("expected browsing after failed commit; got %s", l.Interaction())
	}
	if err := l.Store.State().Err; err == nil || err.Message() != "Failed to reorder habits" {
		t.Fatalf("expected reorder failure; got %+v", err)
	}
	want := []string{"fetch", "reorder [D A B C]"}
	if got := c.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected a single attempt %v; got %v", want, got)
	}
}
