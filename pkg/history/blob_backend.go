package history

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/DrSkyle/graphkit/pkg/storage"
)

// BlobBackend keeps the ledger as a single object in a BlobStore.
// Object stores cannot append, so Append is read-modify-write and is not
// safe for concurrent writers.
type BlobBackend struct {
	Store storage.BlobStore
	Key   string
}

// NewBlobBackend opens the ledger object named by an "s3://bucket/key" URL.
func NewBlobBackend(ctx context.Context, s3URL string) (*BlobBackend, error) {
	u, err := url.Parse(s3URL)
	if err != nil {
		return nil, fmt.Errorf("invalid s3 url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("s3 ledger url %q needs a bucket and a key", s3URL)
	}
	dir := path.Dir(key)
	if dir == "." {
		dir = ""
	}
	store, err := storage.OpenS3(ctx, u.Host, dir)
	if err != nil {
		return nil, err
	}
	return &BlobBackend{Store: store, Key: path.Base(key)}, nil
}

func (b *BlobBackend) Append(ctx context.Context, recs []Record) error {
	existing, err := b.Store.Get(ctx, b.Key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	data, err := encode(recs)
	if err != nil {
		return err
	}
	return b.Store.Put(ctx, b.Key, append(existing, data...))
}

func (b *BlobBackend) Load(ctx context.Context, n int) ([]Record, error) {
	data, err := b.Store.Get(ctx, b.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	recs, err := decode(bufio.NewScanner(bytes.NewReader(data)))
	if err != nil {
		return nil, err
	}
	return window(recs, n), nil
}
