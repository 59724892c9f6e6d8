// Package backup persists graph snapshots to a storage.BlobStore after
// every committed mutation cycle and restores them.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/DrSkyle/graphkit/pkg/storage"
	"github.com/DrSkyle/graphkit/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoBackups is returned by Latest when a graph has no saved snapshots.
var ErrNoBackups = errors.New("no backups found")

// Key names the snapshot of graphID at log version seq. Versions are zero
// padded so keys sort in version order.
func Key(graphID string, seq int) string {
	return fmt.Sprintf("%s/%010d.json", graphID, seq)
}

// Saver is a graph.Observer that writes a snapshot of the graph after each
// mutation cycle when the graph's configuration enables backups.
type Saver struct {
	store  storage.BlobStore
	logger *slog.Logger
	tracer trace.Tracer
}

// NewSaver returns a Saver writing to store.
func NewSaver(store storage.BlobStore, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{store: store, logger: logger, tracer: telemetry.Tracer("graphkit/backup")}
}

// OnChange implements graph.Observer.
func (s *Saver) OnChange(ctx context.Context, ev graph.Event) error {
	if !ev.Graph.Config().WriteBackups {
		return nil
	}
	_, err := s.Save(ctx, ev.Graph)
	return err
}

// Save writes a snapshot of g and returns its key.
func (s *Saver) Save(ctx context.Context, g *graph.Graph) (string, error) {
	snap := g.Snapshot()
	key := Key(snap.ID, len(snap.Log))

	ctx, span := s.tracer.Start(ctx, "backup.save", trace.WithAttributes(
		attribute.String("graph.id", snap.ID),
		attribute.String("backup.key", key),
	))
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	span.SetAttributes(attribute.Int("backup.bytes", len(data)))

	if err := s.store.Put(ctx, key, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "put failed")
		return "", fmt.Errorf("failed to save backup %s: %w", key, err)
	}
	s.logger.Debug("Backup saved", "key", key, "bytes", len(data))
	return key, nil
}

// Load restores the snapshot stored under key.
func Load(ctx context.Context, store storage.BlobStore, key string, opts ...graph.Option) (*graph.Graph, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode backup %s: %w", key, err)
	}
	g, err := graph.Restore(snap, opts...)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", key, err)
	}
	return g, nil
}

// Versions lists the saved log versions of graphID in ascending order.
func Versions(ctx context.Context, store storage.BlobStore, graphID string) ([]int, error) {
	keys, err := store.List(ctx, graphID+"/")
	if err != nil {
		return nil, err
	}
	var out []int
	for _, k := range keys {
		if path.Dir(k) != graphID {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSuffix(path.Base(k), ".json"))
		if err != nil {
			continue
		}
		out = append(out, seq)
	}
	return out, nil
}

// Latest restores the most recent snapshot of graphID.
func Latest(ctx context.Context, store storage.BlobStore, graphID string, opts ...graph.Option) (*graph.Graph, error) {
	versions, err := Versions(ctx, store, graphID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("graph %s: %w", graphID, ErrNoBackups)
	}
	return Load(ctx, store, Key(graphID, versions[len(versions)-1]), opts...)
}
