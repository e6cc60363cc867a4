package cli

import (
	"context"
	"fmt"
	"log/slog"

	"planner-cli/internal/client"
	"planner-cli/internal/config"
	"planner-cli/internal/gitrepo"
	"planner-cli/internal/habitlist"
	"planner-cli/internal/habits"
	"planner-cli/internal/model"
)

// habitClient is what every configured backend offers: the list contract plus
// atomic rename.
type habitClient interface {
	habitlist.Client
	habitlist.Renamer
}

// backend is the habit source selected by config: a local service over a
// repository, or a remote planner server.
type backend struct {
	cfg    *config.Config
	svc    *habits.Service    // markdown, sqlite
	remote *client.HTTPClient // http
}

func openBackend(app *App, log *slog.Logger) (*backend, error) {
	cfg, err := app.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &backend{cfg: cfg}
	switch cfg.Backend {
	case config.BackendMarkdown:
		repo := habits.NewMarkdownRepository(cfg.WeeklyDir(), cfg.PeriodicNotes.WeeklyNameFormat)
		if cfg.Git.AutoCommit {
			repo.Git = gitrepo.NewCommitter()
		}
		b.svc = habits.NewService(repo, habits.WithLogger(log))
	case config.BackendSQLite:
		repo := habits.NewSQLiteRepository(habits.DefaultSQLitePath(cfg.WorkspaceRoot))
		b.svc = habits.NewService(repo, habits.WithLogger(log))
	case config.BackendHTTP:
		b.remote = client.NewHTTPClient(cfg.RemoteURL, app.Timeout)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return b, nil
}

// close releases local backend resources.
func (b *backend) close() {
	if b.svc != nil {
		_ = b.svc.Close()
	}
}

func (b *backend) client() habitClient {
	if b.remote != nil {
		return b.remote
	}
	return b.svc
}

func (b *backend) currentWeek(ctx context.Context) (model.Week, error) {
	if b.svc != nil {
		return b.svc.CurrentWeek(), nil
	}
	wh, err := b.remote.FetchCurrentWeek(ctx)
	if err != nil {
		return model.Week{}, err
	}
	return wh.Week(), nil
}

func (b *backend) week(ctx context.Context, wk model.Week) (*model.WeeklyHabits, error) {
	if b.svc != nil {
		return b.svc.Week(ctx, wk)
	}
	return b.remote.Week(ctx, wk)
}

// note returns the weekly note for wk. Remote backends only serve habits, so
// their note is rendered locally.
func (b *backend) note(ctx context.Context, wk model.Week) ([]byte, error) {
	if b.svc != nil {
		return b.svc.Note(ctx, wk)
	}
	wh, err := b.remote.Week(ctx, wk)
	if err != nil {
		return nil, err
	}
	return habits.RenderNote(wh), nil
}
