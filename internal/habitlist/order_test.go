package habitlist

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"planner-cli/internal/model"
)

func TestOrder_Scenario(t *testing.T) {
	t.Parallel()

	c := exerciseReadMeditate()
	got := Names(Order(c.week))
	want := []string{"Exercise", "Read", "Meditate"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestOrder_NilSnapshot(t *testing.T) {
	t.Parallel()

	if got := Order(nil); got != nil {
		t.Fatalf("expected nil; got %v", got)
	}
}

func TestOrder_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		wk := model.NewWeeklyHabits(model.Week{Year: 2024, Number: 10})
		n := rng.Intn(12)
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("h%02d", i)
			wk.Habits[name] = &model.Habit{
				Name:      name,
				Completed: rng.Intn(2) == 0,
				Order:     rng.Intn(5), // duplicates on purpose
			}
		}
		before := wk.Clone()

		seq := Order(wk)
		if len(seq) != n {
			t.Fatalf("round %d: expected %d habits; got %d", round, n, len(seq))
		}
		if again := Order(wk); !reflect.DeepEqual(seq, again) {
			t.Fatalf("round %d: expected repeated calls to agree:\n%v\n%v", round, seq, again)
		}
		if !reflect.DeepEqual(before, wk) {
			t.Fatalf("round %d: expected snapshot to be left untouched", round)
		}
		for i := 1; i < len(seq); i++ {
			prev, cur := seq[i-1], seq[i]
			if prev.Completed && !cur.Completed {
				t.Fatalf("round %d: incomplete %q after completed %q", round, cur.Name, prev.Name)
			}
			if prev.Completed == cur.Completed && prev.Order > cur.Order {
				t.Fatalf("round %d: order decreases within bucket at %d: %v", round, i, seq)
			}
		}
	}
}

func TestOrder_TiesBrokenByName(t *testing.T) {
	t.Parallel()

	c := newFakeClient(
		model.Habit{Name: "b", Order: 1},
		model.Habit{Name: "a", Order: 1},
		model.Habit{Name: "c", Order: 0},
	)
	if got := Names(Order(c.week)); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected tie order %v", got)
	}
}

func TestOrder_ReturnsCopies(t *testing.T) {
	t.Parallel()

	c := exerciseReadMeditate()
	seq := Order(c.week)
	seq[0].Completed = true
	seq[0].Order = 99
	if h := c.week.Habits["Exercise"]; h.Completed || h.Order != 0 {
		t.Fatalf("expected snapshot untouched; got %+v", h)
	}
}

func TestSplit_KeepsCombinedIndex(t *testing.T) {
	t.Parallel()

	seq := Order(exerciseReadMeditate().week)
	incomplete, completed := Split(seq)
	if len(incomplete) != 2 || len(completed) != 1 {
		t.Fatalf("unexpected split %v / %v", incomplete, completed)
	}
	if completed[0].Index != 2 || completed[0].Habit.Name != "Meditate" {
		t.Fatalf("expected Meditate at combined index 2; got %+v", completed[0])
	}
	if incomplete[1].Index != 1 || incomplete[1].Habit.Name != "Read" {
		t.Fatalf("expected Read at combined index 1; got %+v", incomplete[1])
	}
	if IndexOf(seq, "Read") != 1 || IndexOf(seq, "nope") != -1 {
		t.Fatalf("unexpected IndexOf results")
	}
}
