package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/mmynk/settleup/internal/config"
	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/state"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/internal/storage/memory"
	"github.com/mmynk/settleup/internal/storage/sqlite"
)

// app is the loaded state of one command invocation.
type app struct {
	cfg       *config.Config
	store     storage.Store
	manager   *state.Manager
	nc        *nats.Conn
	publisher *events.Publisher
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openApp loads the stored state and wires persistence. Records that fail to load are
// logged and start out empty.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	slog.Debug("Storage initialized", "backend", cfg.Storage.Backend, "database", cfg.Storage.DBPath)

	roster := cfg.DefaultRoster()
	snap, err := storage.Load(ctx, store, roster)
	if err != nil {
		slog.Warn("Some stored data could not be loaded", "error", err)
	}

	manager := state.NewManager(snap,
		state.WithDefaultRoster(roster),
		state.WithMode(cfg.Mode()),
		state.WithDateLayout(cfg.Settlement.DateLayout),
	)
	storage.NewPersister(store, roster).Attach(manager)

	a := &app{cfg: cfg, store: store, manager: manager}
	if url := cfg.Events.NATSURL; url != "" {
		nc, err := events.Connect(url)
		if err != nil {
			slog.Warn("Settlement events disabled", "url", url, "error", err)
		} else {
			a.nc = nc
			a.publisher = events.NewPublisher(nc, events.DefaultBufferSize)
			a.publisher.Attach(manager)
			slog.Debug("Publishing settlement events", "url", url, "subject", events.SubjectBillSettled)
		}
	}
	return a, nil
}

// Close publishes pending events, closes the NATS connection and closes the store.
func (a *app) Close() error {
	var errs []error
	if a.publisher != nil {
		a.publisher.Flush()
	}
	if a.nc != nil {
		if err := a.nc.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush nats connection: %w", err))
		}
		a.nc.Close()
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// withApp runs fn with a freshly loaded app and closes it afterwards.
func (o *rootOptions) withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx, o.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to close app", "error", err)
		}
	}()
	return fn(a)
}

func parseMembers(list []string) []models.Member {
	members := make([]models.Member, 0, len(list))
	for _, name := range list {
		if m := models.NormalizeMember(name); m != "" {
			members = append(members, m)
		}
	}
	return members
}
