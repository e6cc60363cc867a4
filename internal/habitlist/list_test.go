package habitlist

import (
	"reflect"
	"testing"
)

func TestAddForm_SubmitAddsAndCollapses(t *testing.T) {
	t.Parallel()

	c := exerciseReadMeditate()
	l := NewList(loaded(t, c))

	if !l.OpenForm() {
		t.Fatalf("expected form to open")
	}
	if l.Interaction() != Adding {
		t.Fatalf("expected adding; got %s", l.Interaction())
	}
	l.Form.SetDraft("  Journal  ")
	settle(t, l, l.Form.Submit(l.Store))

	if l.Form.Expanded() || l.Form.Draft() != "" {
		t.Fatalf("expected collapsed, cleared form")
	}
	want := []string{"fetch", "add Journal", "fetch"}
	if got := c.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected calls %v; got %v", want, got)
	}
}

func TestAddForm_BlankSubmitAndBlur(t *testing.T) {
	t.Parallel()

	c := exerciseReadMeditate()
	s := loaded(t, c)

	var f AddForm
	f.Open()
	f.SetDraft("   ")
	if cmd := f.Submit(s); cmd != nil {
		t.Fatalf("expected blank submit to do nothing")
	}
	if !f.Expanded() {
		t.Fatalf("expected form to stay open after blank submit")
	}
	f.Blur()
	if f.Expanded() {
		t.Fatalf("expected blur with a blank draft to collapse")
	}

	f.Open()
	f.SetDraft("Run")
	f.Blur()
	if !f.Expanded() || f.Draft() != "Run" {
		t.Fatalf("expected blur to keep a non-empty draft")
	}
	f.Cancel()
	if f.Expanded() || f.Draft() != "" {
		t.Fatalf("expected escape to collapse and clear")
	}
	if len(c.Calls()) != 1 {
		t.Fatalf("expected no backend calls; got %v", c.Calls())
	}
}

func TestList_GesturesAreExclusive(t *testing.T) {
	t.Parallel()

	l := NewList(loaded(t, exerciseReadMeditate()))

	if !l.BeginEdit("Read") {
		t.Fatalf("expected edit to begin")
	}
	if l.StartDrag(0) {
		t.Fatalf("expected drag to be refused while editing")
	}
	if l.OpenForm() {
		t.Fatalf("expected form to be refused while editing")
	}
	if l.Toggle("Read") != nil {
		t.Fatalf("expected toggle to be refused while editing")
	}
	l.Editor.Cancel()

	if !l.StartDrag(0) {
		t.Fatalf("expected drag to start once browsing")
	}
	if l.BeginEdit("Read") {
		t.Fatalf("expected edit to be refused while dragging")
	}
	if l.Interaction() != Reordering {
		t.Fatalf("expected reordering; got %s", l.Interaction())
	}
}

func TestList_BlockedWithoutSnapshot(t *testing.T) {
	t.Parallel()

	c := exerciseReadMeditate()
	c.fetchErr = errBackendDown
	s := NewStore(c)
	l := NewList(s)
	settle(t, l, s.Load())

	if !l.Blocked() {
		t.Fatalf("expected list to be blocked after a failed load")
	}
	if l.StartDrag(0) || l.OpenForm() || l.BeginEdit("Read") {
		t.Fatalf("expected gestures to be refused while blocked")
	}
	if l.Toggle("Read") != nil || l.Remove("Read") != nil {
		t.Fatalf("expected mutations to be refused while blocked")
	}
}

func TestList_MutationFailureResetsGestures(t *testing.T) {
	t.Parallel()

	c := exerciseReadMeditate()
	c.errs["remove"] = errBackendDown
	l := NewList(loaded(t, c))

	cmd := l.Remove("Read")
	// The user opens the add form while the remove is in flight.
	if !l.OpenForm() {
		t.Fatalf("expected form to open")
	}
	l.Form.SetDraft("half typed")
	settle(t, l, cmd)

	if l.Interaction() != Browsing {
		t.Fatalf("expected gestures reset after failure; got %s", l.Interaction())
	}
	if err := l.Store.State().Err; err == nil || err.Message() != "Failed to remove habit" {
		t.Fatalf("expected remove failure; got %+v", err)
	}
	if !l.Store.State().Data.Has("Read") {
		t.Fatalf("expected snapshot to keep Read")
	}
}
