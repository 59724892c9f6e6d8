// Package storage provides the blob stores that graph backups are written to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("blob not found")

// BlobStore defines the interface for abstract storage backends.
// Keys use forward slashes on every platform. List returns keys sorted
// ascending.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Location is a parsed backup URL.
type Location struct {
	Scheme string // "s3" or "file"
	Bucket string
	Prefix string
	Dir    string
}

// ParseLocation accepts "s3://bucket/prefix", "file:///dir" or a plain
// directory path.
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, errors.New("empty storage location")
	}
	if !strings.Contains(raw, "://") {
		return Location{Scheme: "file", Dir: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid storage url: %w", err)
	}
	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return Location{}, fmt.Errorf("s3 url %q has no bucket", raw)
		}
		return Location{Scheme: "s3", Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
	case "file":
		if u.Path == "" {
			return Location{}, fmt.Errorf("file url %q has no path", raw)
		}
		return Location{Scheme: "file", Dir: u.Path}, nil
	}
	return Location{}, fmt.Errorf("unsupported storage scheme %q", u.Scheme)
}

// Open returns the store for a backup URL. S3 locations load the default AWS
// configuration; AWS_ENDPOINT_URL points them at a local endpoint.
func Open(ctx context.Context, raw string) (BlobStore, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}
	if loc.Scheme == "s3" {
		return OpenS3(ctx, loc.Bucket, loc.Prefix)
	}
	return NewLocalStore(loc.Dir), nil
}
