package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "g1/000002.json", []byte("two")))
	require.NoError(t, store.Put(ctx, "g1/000001.json", []byte("one")))
	require.NoError(t, store.Put(ctx, "g2/000001.json", []byte("other")))

	data, err := store.Get(ctx, "g1/000001.json")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	keys, err := store.List(ctx, "g1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1/000001.json", "g1/000002.json"}, keys)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStoreMissing(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir() + "/never-created")

	_, err := store.Get(ctx, "nope.json")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	for _, key := range []string{"", "../x", "/etc/passwd"} {
		assert.Error(t, store.Put(context.Background(), key, nil), "key %q", key)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "s3://backups/graphs/prod", want: Location{Scheme: "s3", Bucket: "backups", Prefix: "graphs/prod"}},
		{in: "s3://backups", want: Location{Scheme: "s3", Bucket: "backups"}},
		{in: "file:///var/lib/graphkit", want: Location{Scheme: "file", Dir: "/var/lib/graphkit"}},
		{in: ".graphkit/backups", want: Location{Scheme: "file", Dir: ".graphkit/backups"}},
		{in: "", wantErr: true},
		{in: "s3:///prefix", wantErr: true},
		{in: "gs://bucket", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLocation(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
