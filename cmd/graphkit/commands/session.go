package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/DrSkyle/graphkit/pkg/backup"
	"github.com/DrSkyle/graphkit/pkg/config"
	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/DrSkyle/graphkit/pkg/history"
	"github.com/DrSkyle/graphkit/pkg/storage"
	"github.com/DrSkyle/graphkit/pkg/telemetry"
	"github.com/spf13/viper"
)

// session holds what every command needs: configuration, logger and the
// observers wired from it.
type session struct {
	cfg      config.GraphConfig
	logger   *slog.Logger
	store    storage.BlobStore
	shutdown func(context.Context) error

	// runtime holds the logger and observers. Graphs restored from a
	// snapshot get only these and keep their saved configuration.
	runtime []graph.Option
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(os.Stderr, cfg.LogFormat)

	shutdown, err := telemetry.Init(ctx, cfg, viper.GetString("otel_endpoint"))
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, shutdown: shutdown}
	s.runtime = []graph.Option{graph.WithLogger(logger)}

	rec, err := telemetry.NewRecorder()
	if err != nil {
		return nil, err
	}
	s.runtime = append(s.runtime, graph.WithObserver(rec))

	if cfg.BackupURL != "" {
		store, err := storage.Open(ctx, cfg.BackupURL)
		if err != nil {
			return nil, fmt.Errorf("backup store: %w", err)
		}
		s.store = store
		// The saver checks each graph's own write_backups setting.
		s.runtime = append(s.runtime, graph.WithObserver(backup.NewSaver(store, logger)))
	}

	if cfg.LedgerPath != "" {
		ledger, err := history.Open(ctx, cfg.LedgerPath)
		if err != nil {
			return nil, fmt.Errorf("ledger: %w", err)
		}
		s.runtime = append(s.runtime, graph.WithObserver(ledger))
	}
	return s, nil
}

// newGraphOptions configures a fresh graph from the session configuration.
func (s *session) newGraphOptions() []graph.Option {
	return append([]graph.Option{graph.WithConfig(s.cfg)}, s.runtime...)
}

// restoreOptions attaches the session runtime to a restored graph without
// overriding the configuration saved in its snapshot.
func (s *session) restoreOptions() []graph.Option {
	return slices.Clone(s.runtime)
}

func (s *session) close(ctx context.Context) {
	if err := s.shutdown(ctx); err != nil {
		s.logger.Warn("Telemetry shutdown failed", "error", err)
	}
}

func (s *session) requireStore() (storage.BlobStore, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no backup_url configured")
	}
	return s.store, nil
}
