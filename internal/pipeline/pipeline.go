// Package pipeline turns a video id into a transcript. Captions are
// strictly preferred: they are free and instantaneous. Audio download
// plus local transcription is the fallback, with the downloaded
// artifact removed on every exit path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/victormacedov/social-media-agent/internal/logger"
	"github.com/victormacedov/social-media-agent/internal/media"
)

// ErrNoTranscript means both the caption and transcription paths were
// exhausted. User-facing, not retryable.
var ErrNoTranscript = errors.New("no transcript available for video")

// Origin tags where a transcript came from, for diagnostics.
type Origin string

const (
	OriginCaption     Origin = "caption"
	OriginTranscribed Origin = "transcribed"
)

// Transcript is the pipeline's product: non-empty text after trimming.
type Transcript struct {
	Text   string
	Origin Origin
}

// CaptionSource yields an existing transcript or reports absence.
// Absence is a normal outcome, so no error return.
type CaptionSource interface {
	Fetch(ctx context.Context, videoID string, langs []string) (string, bool)
}

// AudioSource materializes an audio artifact for a video id.
type AudioSource interface {
	Acquire(ctx context.Context, videoID string) (media.Artifact, error)
}

// Transcriber converts an audio artifact into text.
type Transcriber interface {
	Transcribe(ctx context.Context, art media.Artifact) (string, error)
}

type Pipeline struct {
	captions CaptionSource
	audio    AudioSource
	speech   Transcriber
	langs    []string
	log      *logrus.Entry
}

func New(captions CaptionSource, audio AudioSource, speech Transcriber, langs []string) *Pipeline {
	return &Pipeline{
		captions: captions,
		audio:    audio,
		speech:   speech,
		langs:    langs,
		log:      logger.Component("pipeline"),
	}
}

// Resolve obtains a transcript for videoID. The caption path never
// triggers a download; the audio path guarantees artifact cleanup even
// when transcription fails.
func (p *Pipeline) Resolve(ctx context.Context, videoID string) (Transcript, error) {
	if text, ok := p.captions.Fetch(ctx, videoID, p.langs); ok && strings.TrimSpace(text) != "" {
		p.log.WithFields(logrus.Fields{"video_id": videoID, "origin": OriginCaption}).Info("transcript resolved")
		return Transcript{Text: strings.TrimSpace(text), Origin: OriginCaption}, nil
	}

	art, err := p.audio.Acquire(ctx, videoID)
	if err != nil {
		return Transcript{}, err
	}
	defer func() {
		if rmErr := art.Remove(); rmErr != nil {
			p.log.WithField("path", art.Path).WithError(rmErr).Warn("failed to remove audio artifact")
		}
	}()

	text, err := p.speech.Transcribe(ctx, art)
	if err != nil {
		return Transcript{}, fmt.Errorf("transcribe %s: %w", videoID, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Transcript{}, ErrNoTranscript
	}

	p.log.WithFields(logrus.Fields{"video_id": videoID, "origin": OriginTranscribed}).Info("transcript resolved")
	return Transcript{Text: text, Origin: OriginTranscribed}, nil
}
