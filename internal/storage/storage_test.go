package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/config"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, size, err := store.Save(ctx, "interior.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), size)
	assert.True(t, strings.HasSuffix(path, ".png"))

	rc, err := store.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Remove(ctx, path))
	_, err = store.Open(ctx, path)
	assert.Error(t, err)

	// Removing twice is fine.
	assert.NoError(t, store.Remove(ctx, path))
}

func TestNewStore(t *testing.T) {
	logger := zap.NewNop()

	store, err := NewStore(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = NewStore(&config.StorageConfig{Mode: "azure"}, logger)
	assert.Error(t, err, "azure mode requires a connection string")

	_, err = NewStore(&config.StorageConfig{Mode: "s3"}, logger)
	assert.Error(t, err)
}
