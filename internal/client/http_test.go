package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planner-cli/internal/habitlist"
	"planner-cli/internal/habits"
	"planner-cli/internal/model"
	"planner-cli/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *HTTPClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := habits.NewService(habits.NewMarkdownRepository(t.TempDir(), ""), habits.WithClock(func() time.Time {
		return time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC)
	}))
	ts := httptest.NewServer(server.New(svc, nil).Handler())
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL+"/", 5*time.Second)
}

func TestHTTPClient_RoundTrip(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	require.NoError(t, c.AddHabit(ctx, "Exercise"))
	require.NoError(t, c.AddHabit(ctx, "Read"))
	require.NoError(t, c.ToggleHabit(ctx, "Exercise"))
	require.NoError(t, c.ReorderHabits(ctx, []string{"Read", "Exercise"}))
	require.NoError(t, c.RenameHabit(ctx, "Read", "Study"))

	wh, err := c.FetchCurrentWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Week{Year: 2024, Number: 5}, wh.Week())
	assert.Equal(t, []string{"Study", "Exercise"}, habitlist.Names(habitlist.Order(wh)))
	assert.True(t, wh.Habits["Exercise"].Completed)

	require.NoError(t, c.RemoveHabit(ctx, "Study"))
	wh, err = c.Week(ctx, model.Week{Year: 2024, Number: 5})
	require.NoError(t, err)
	assert.Len(t, wh.Habits, 1)
}

func TestHTTPClient_MapsStatusesToModelErrors(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	err := c.RemoveHabit(ctx, "ghost")
	assert.True(t, errors.Is(err, model.ErrHabitNotFound), "got %v", err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	require.NoError(t, c.AddHabit(ctx, "A"))
	require.NoError(t, c.AddHabit(ctx, "B"))
	err = c.RenameHabit(ctx, "A", "B")
	assert.True(t, errors.Is(err, model.ErrHabitExists), "got %v", err)

	err = c.AddHabit(ctx, "   ")
	assert.True(t, errors.Is(err, model.ErrInvalidRequest), "got %v", err)
}

func TestHTTPClient_DrivesStore(t *testing.T) {
	c := newBackend(t)
	s := habitlist.NewStore(c, habitlist.WithTimeout(5*time.Second))

	for cmd := s.Add("Exercise"); cmd != nil; {
		cmd = s.Update(cmd())
	}
	for cmd := s.Rename("Exercise", "Workout"); cmd != nil; {
		cmd = s.Update(cmd())
	}
	require.Nil(t, s.State().Err)
	assert.Equal(t, []string{"Workout"}, habitlist.Names(s.Ordered()))
}

func TestHTTPClient_UnavailableServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "maintenance")
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, time.Second)
	s := habitlist.NewStore(c)
	for cmd := s.Load(); cmd != nil; {
		cmd = s.Update(cmd())
	}
	err := s.State().Err
	require.NotNil(t, err)
	assert.Equal(t, habitlist.KindUnavailable, err.Kind)
	assert.Equal(t, "Failed to load habits", err.Message())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "maintenance", apiErr.Message)
}

func TestHTTPClient_ConnectionRefusedIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	s := habitlist.NewStore(NewHTTPClient(url, time.Second))
	for cmd := s.Load(); cmd != nil; {
		cmd = s.Update(cmd())
	}
	require.NotNil(t, s.State().Err)
	assert.Equal(t, habitlist.KindUnavailable, s.State().Err.Kind)
}
