package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireReusesCachedFile(t *testing.T) {
	dir := t.TempDir()
	cached := filepath.Join(dir, "abc123.m4a")
	require.NoError(t, os.WriteFile(cached, []byte("audio"), 0o644))

	calls := 0
	a := NewAcquirer(dir)
	a.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls++
		return nil, nil
	}

	art, err := a.Acquire(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, cached, art.Path)
	assert.Equal(t, "abc123", art.VideoID)
	assert.Zero(t, calls, "cached file must not trigger a download")
}

func TestAcquireDownloads(t *testing.T) {
	dir := t.TempDir()

	a := NewAcquirer(dir)
	a.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "yt-dlp", name)
		assert.Contains(t, args, "bestaudio[ext=m4a]/bestaudio")
		// the runner stands in for yt-dlp writing the file
		target := filepath.Join(dir, "abc123.m4a")
		return nil, os.WriteFile(target, []byte("audio"), 0o644)
	}

	art, err := a.Acquire(context.Background(), "abc123")
	require.NoError(t, err)
	assert.FileExists(t, art.Path)

	assert.NoError(t, art.Remove())
	assert.NoFileExists(t, art.Path)
}

func TestAcquireFailureWrapsAcquisitionError(t *testing.T) {
	a := NewAcquirer(t.TempDir())
	a.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("ERROR: video unavailable"), errors.New("exit status 1")
	}

	_, err := a.Acquire(context.Background(), "gone")
	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
	assert.Equal(t, "gone", acqErr.VideoID)
}

func TestAcquireNoFileProduced(t *testing.T) {
	a := NewAcquirer(t.TempDir())
	a.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil // command "succeeds" but writes nothing
	}

	_, err := a.Acquire(context.Background(), "abc123")
	var acqErr *AcquisitionError
	assert.ErrorAs(t, err, &acqErr)
}
