package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victormacedov/social-media-agent/internal/media"
)

type fakeCaptions struct {
	text  string
	ok    bool
	calls int
}

func (f *fakeCaptions) Fetch(_ context.Context, _ string, _ []string) (string, bool) {
	f.calls++
	return f.text, f.ok
}

type fakeAudio struct {
	art   media.Artifact
	err   error
	calls int
}

func (f *fakeAudio) Acquire(_ context.Context, _ string) (media.Artifact, error) {
	f.calls++
	return f.art, f.err
}

type fakeSpeech struct {
	text  string
	err   error
	calls int
}

func (f *fakeSpeech) Transcribe(_ context.Context, _ media.Artifact) (string, error) {
	f.calls++
	return f.text, f.err
}

func tempArtifact(t *testing.T) media.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abc123.m4a")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
	return media.Artifact{Path: path, VideoID: "abc123"}
}

func TestResolveCaptionHitSkipsDownload(t *testing.T) {
	captions := &fakeCaptions{text: "caption text", ok: true}
	audio := &fakeAudio{}
	speech := &fakeSpeech{}

	p := New(captions, audio, speech, []string{"pt", "en"})
	tr, err := p.Resolve(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "caption text", tr.Text)
	assert.Equal(t, OriginCaption, tr.Origin)
	assert.Zero(t, audio.calls, "caption hit must not download audio")
	assert.Zero(t, speech.calls)
}

func TestResolveFallsBackToAudio(t *testing.T) {
	art := tempArtifact(t)
	captions := &fakeCaptions{}
	audio := &fakeAudio{art: art}
	speech := &fakeSpeech{text: " transcribed text "}

	p := New(captions, audio, speech, []string{"pt"})
	tr, err := p.Resolve(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "transcribed text", tr.Text)
	assert.Equal(t, OriginTranscribed, tr.Origin)
	assert.NoFileExists(t, art.Path, "artifact must be removed after transcription")
}

func TestResolveCleansUpWhenTranscriptionFails(t *testing.T) {
	art := tempArtifact(t)
	audio := &fakeAudio{art: art}
	speech := &fakeSpeech{err: errors.New("model crashed")}

	p := New(&fakeCaptions{}, audio, speech, []string{"pt"})
	_, err := p.Resolve(context.Background(), "abc123")

	require.Error(t, err)
	assert.NoFileExists(t, art.Path, "artifact must be removed even when transcription fails")
}

func TestResolveWhitespaceOnlyFails(t *testing.T) {
	art := tempArtifact(t)
	captions := &fakeCaptions{text: "   \n\t", ok: true}
	audio := &fakeAudio{art: art}
	speech := &fakeSpeech{text: "  \n  "}

	p := New(captions, audio, speech, []string{"pt"})
	_, err := p.Resolve(context.Background(), "abc123")

	assert.ErrorIs(t, err, ErrNoTranscript)
	assert.NoFileExists(t, art.Path)
}

func TestResolveAcquisitionErrorPropagates(t *testing.T) {
	wrapped := &media.AcquisitionError{VideoID: "abc123", Err: errors.New("download failed")}
	audio := &fakeAudio{err: wrapped}

	p := New(&fakeCaptions{}, audio, &fakeSpeech{}, []string{"pt"})
	_, err := p.Resolve(context.Background(), "abc123")

	var acqErr *media.AcquisitionError
	assert.ErrorAs(t, err, &acqErr)
}
