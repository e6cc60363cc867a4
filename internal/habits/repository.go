// Package habits is the habit backend: a Service applying mutations to one
// ISO week at a time over a pluggable Repository.
package habits

import (
	"context"
	"errors"

	"planner-cli/internal/model"
)

// ErrWeekNotFound is returned by Repository.Load when nothing is stored for
// the week yet.
var ErrWeekNotFound = errors.New("week not found")

type Repository interface {
	Load(ctx context.Context, wk model.Week) (*model.WeeklyHabits, error)
	Save(ctx context.Context, wh *model.WeeklyHabits) error
}

// noteSource is implemented by repositories that store whole weekly notes.
type noteSource interface {
	RawNote(ctx context.Context, wk model.Week) ([]byte, error)
}
