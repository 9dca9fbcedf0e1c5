// Package media materializes audio files for videos that have no
// caption transcript, caching one file per video id on disk.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/victormacedov/social-media-agent/internal/logger"
)

// AcquisitionError wraps a failed audio download.
type AcquisitionError struct {
	VideoID string
	Err     error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire audio for %s: %v", e.VideoID, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Artifact is a downloaded audio file. The acquirer owns it until the
// pipeline hands it to the transcriber; the pipeline removes it when done.
type Artifact struct {
	Path    string
	VideoID string
}

// Remove deletes the file. Best-effort: the artifact is a disposable
// cache entry, callers log and move on.
func (a Artifact) Remove() error {
	return os.Remove(a.Path)
}

type Acquirer struct {
	cacheDir string
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
	log      *logrus.Entry
}

func NewAcquirer(cacheDir string) *Acquirer {
	return &Acquirer{
		cacheDir: cacheDir,
		run:      runCommand,
		log:      logger.Component("media"),
	}
}

// Acquire downloads best-available audio for videoID into the cache
// directory, reusing an existing file when present. Concurrent
// first-time downloads of the same id may race on the cache file;
// last writer wins, which is harmless for a cache entry.
func (a *Acquirer) Acquire(ctx context.Context, videoID string) (Artifact, error) {
	target := filepath.Join(a.cacheDir, videoID+".m4a")
	art := Artifact{Path: target, VideoID: videoID}

	if _, err := os.Stat(target); err == nil {
		a.log.WithField("video_id", videoID).Debug("reusing cached audio")
		return art, nil
	}

	if err := os.MkdirAll(a.cacheDir, 0o755); err != nil {
		return Artifact{}, &AcquisitionError{VideoID: videoID, Err: err}
	}

	out, err := a.run(ctx, "yt-dlp",
		"--format", "bestaudio[ext=m4a]/bestaudio",
		"--no-playlist",
		"--concurrent-fragments", "4",
		"--quiet",
		"-o", target,
		"https://www.youtube.com/watch?v="+videoID,
	)
	if err != nil {
		return Artifact{}, &AcquisitionError{VideoID: videoID, Err: fmt.Errorf("%w: %s", err, out)}
	}

	if _, err := os.Stat(target); err != nil {
		return Artifact{}, &AcquisitionError{VideoID: videoID, Err: fmt.Errorf("no audio file produced: %w", err)}
	}

	a.log.WithField("video_id", videoID).Info("audio downloaded")
	return art, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
