package habitlist

import (
	"planner-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseDragOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseDragOver:
		return "drag_over"
	default:
		return "idle"
	}
}

// DragState is Idle, Dragging(Source) or DragOver(Source, Target). Indexes
// are positions in the combined ordered sequence. Source is only meaningful
// outside Idle and Target only in DragOver.
type DragState struct {
	Phase  Phase
	Source int
	Target int
}

// Drag tracks one reorder gesture. The zero value is idle.
type Drag struct {
	state DragState
}

func (d *Drag) State() DragState { return d.state }

func (d *Drag) Active() bool { return d.state.Phase != PhaseIdle }

// Start begins a drag from index i.
func (d *Drag) Start(i int) {
	d.state = DragState{Phase: PhaseDragging, Source: i}
}

// Enter records j as the drop target. Ignored when idle.
func (d *Drag) Enter(j int) {
	if !d.Active() {
		return
	}
	d.state.Phase = PhaseDragOver
	d.state.Target = j
}

// Cancel ends the gesture without committing.
func (d *Drag) Cancel() {
	d.state = DragState{}
}

// Drop ends the gesture. It commits the move against the store's current
// snapshot and returns the reorder command, or nil when there is nothing to
// commit (no target, same index, index out of range). The controller is idle
// afterwards either way; a failed commit is not retried.
func (d *Drag) Drop(store *Store) tea.Cmd {
	st := d.state
	d.Cancel()
	if st.Phase != PhaseDragOver || st.Source == st.Target {
		return nil
	}
	seq := store.Ordered()
	if st.Source < 0 || st.Source >= len(seq) || st.Target < 0 || st.Target >= len(seq) {
		return nil
	}
	return store.Reorder(Names(Move(seq, st.Source, st.Target)))
}

// Move removes the habit at from, inserts it at to, and renumbers Order to
// 0..n-1 across the whole sequence. seq itself is not modified.
func Move(seq []model.Habit, from, to int) []model.Habit {
	out := append([]model.Habit(nil), seq...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) {
		return out
	}
	h := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]model.Habit{h}, out[to:]...)...)
	for i := range out {
		out[i].Order = i
	}
	return out
}
