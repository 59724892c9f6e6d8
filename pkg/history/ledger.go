// Package history keeps an append-only JSONL ledger of action-log entries
// across runs. The ledger is a graph.Observer: register it with
// graph.WithObserver and every committed entry is appended.
package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/graphkit/pkg/graph"
)

// Record is one ledger line: a log entry tagged with the graph it belongs to.
type Record struct {
	GraphID string `json:"graph_id"`
	graph.LogEntry
}

// Backend defines the storage interface for ledger records.
type Backend interface {
	Append(ctx context.Context, recs []Record) error
	Load(ctx context.Context, n int) ([]Record, error)
}

// Client manages the ledger.
type Client struct {
	backend Backend
}

// NewClient initializes a history client.
// Defaults to FileBackend at the default ledger path.
func NewClient(backend Backend) *Client {
	if backend == nil {
		backend = &FileBackend{}
	}
	return &Client{backend: backend}
}

// Open returns a client for location: "s3://bucket/key" or a file path.
// An empty location uses the default path.
func Open(ctx context.Context, location string) (*Client, error) {
	if strings.HasPrefix(location, "s3://") {
		b, err := NewBlobBackend(ctx, location)
		if err != nil {
			return nil, err
		}
		return NewClient(b), nil
	}
	return NewClient(NewLocalBackend(location)), nil
}

// Append records entries for graphID.
func (c *Client) Append(ctx context.Context, graphID string, entries ...graph.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	recs := make([]Record, len(entries))
	for i, e := range entries {
		recs[i] = Record{GraphID: graphID, LogEntry: e}
	}
	return c.backend.Append(ctx, recs)
}

// LoadWindow retrieves the last n records; n <= 0 loads everything.
func (c *Client) LoadWindow(ctx context.Context, n int) ([]Record, error) {
	return c.backend.Load(ctx, n)
}

// OnChange implements graph.Observer.
func (c *Client) OnChange(ctx context.Context, ev graph.Event) error {
	return c.Append(ctx, ev.Graph.ID(), ev.Entries...)
}

// NewLocalBackend creates a file-based backend at the specified path.
func NewLocalBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

// FileBackend implements local filesystem storage.
type FileBackend struct {
	Path string
}

func (b *FileBackend) path() (string, error) {
	if b.Path != "" {
		return b.Path, nil
	}
	return GetLedgerPath()
}

func (b *FileBackend) Append(_ context.Context, recs []Record) error {
	path, err := b.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	data, err := encode(recs)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to append to ledger: %w", err)
	}
	return nil
}

func (b *FileBackend) Load(_ context.Context, n int) ([]Record, error) {
	path, err := b.path()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := decode(bufio.NewScanner(f))
	if err != nil {
		return nil, err
	}
	return window(recs, n), nil
}

// GetLedgerPath provides the default local storage path.
func GetLedgerPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".graphkit", "ledger.jsonl"), nil
}

func encode(recs []Record) ([]byte, error) {
	var buf []byte
	for _, r := range recs {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode ledger record: %w", err)
		}
		buf = append(append(buf, data...), '\n')
	}
	return buf, nil
}

// decode skips lines that do not parse, so one torn write does not make the
// whole ledger unreadable.
func decode(scanner *bufio.Scanner) ([]Record, error) {
	var recs []Record
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		recs = append(recs, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func window(recs []Record, n int) []Record {
	if n > 0 && len(recs) > n {
		return recs[len(recs)-n:]
	}
	if recs == nil {
		return []Record{}
	}
	return recs
}
