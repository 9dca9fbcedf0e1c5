// Package whisper runs local speech-to-text over whisper.cpp. The
// engine wraps a single model configuration built once at process
// startup; loading the model per request would dominate latency.
package whisper

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/victormacedov/social-media-agent/internal/logger"
	"github.com/victormacedov/social-media-agent/internal/media"
)

// Engine is process-wide shared state. Calls are serialized: the tiny
// quantized model is sized for low-resource hosts and running two
// transcriptions at once defeats that.
type Engine struct {
	bin      string
	model    string
	language string

	mu  sync.Mutex
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
	log *logrus.Entry
}

// NewEngine configures the engine. bin is the whisper-cli binary,
// model the ggml model path, language a fixed hint (no auto-detection).
func NewEngine(bin, model, language string) *Engine {
	return &Engine{
		bin:      bin,
		model:    model,
		language: language,
		run:      runCommand,
		log:      logger.Component("whisper"),
	}
}

// Transcribe converts an audio artifact into plain text. Segment texts
// are joined with single spaces in chronological order.
func (e *Engine) Transcribe(ctx context.Context, art media.Artifact) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.WithField("video_id", art.VideoID).Info("transcribing audio")

	out, err := e.run(ctx, e.bin,
		"-m", e.model,
		"-l", e.language,
		"--no-timestamps",
		"-f", art.Path,
	)
	if err != nil {
		return "", fmt.Errorf("whisper transcription of %s: %w: %s", art.Path, err, out)
	}

	return joinSegments(out), nil
}

// joinSegments flattens whisper-cli stdout into one line. whisper.cpp
// prints one recognized segment per line; progress noise goes to stderr
// but blank lines still show up in between.
func joinSegments(out []byte) string {
	var sb strings.Builder
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		seg := strings.TrimSpace(sc.Text())
		if seg == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(seg)
	}
	return sb.String()
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
