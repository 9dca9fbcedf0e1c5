// Package caption retrieves existing transcripts for a video without
// downloading any media. Absence of captions is a normal outcome here,
// never an error: every failure mode collapses into "no transcript".
package caption

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/victormacedov/social-media-agent/internal/logger"
)

const tracksMarker = `"captionTracks":`

// RunFunc executes an external command and returns its combined output.
// Swappable in tests.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

type Fetcher struct {
	httpClient *http.Client
	run        RunFunc
	workDir    string
	log        *logrus.Entry
}

// NewFetcher builds a Fetcher. workDir is where the yt-dlp subtitle
// fallback materializes its short-lived sidecar files.
func NewFetcher(workDir string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		run:        runCommand,
		workDir:    workDir,
		log:        logger.Component("caption"),
	}
}

// Fetch returns the caption transcript for videoID, trying langs in
// order, or ("", false) when none could be obtained. It never fails:
// network errors, disabled captions and unknown ids all read as absence.
func (f *Fetcher) Fetch(ctx context.Context, videoID string, langs []string) (string, bool) {
	text, err := f.fetchFromWatchPage(ctx, videoID, langs)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, true
	}
	if err != nil {
		f.log.WithField("video_id", videoID).WithError(err).Debug("watch page captions unavailable")
	}

	text, err = f.fetchViaSidecar(ctx, videoID, langs)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, true
	}
	if err != nil {
		f.log.WithField("video_id", videoID).WithError(err).Debug("subtitle sidecar unavailable")
	}
	return "", false
}

// track is one entry of the watch page's captionTracks list.
type track struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

func (f *Fetcher) fetchFromWatchPage(ctx context.Context, videoID string, langs []string) (string, error) {
	page, err := f.getBody(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		return "", err
	}

	tracks, err := extractTracks(page)
	if err != nil {
		return "", err
	}

	t, ok := pickTrack(tracks, langs)
	if !ok {
		return "", fmt.Errorf("no caption track for languages %v", langs)
	}

	raw, err := f.getBody(ctx, t.BaseURL)
	if err != nil {
		return "", err
	}
	return parseTimedText(raw)
}

func (f *Fetcher) getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// extractTracks locates the captionTracks JSON array embedded in the
// watch page player response and unmarshals it. Bracket counting keeps
// us off the hook for whatever surrounds the array; brackets inside
// quoted string values (track names carry things like "[auto]") must
// not count.
func extractTracks(page []byte) ([]track, error) {
	idx := strings.Index(string(page), tracksMarker)
	if idx == -1 {
		return nil, fmt.Errorf("captionTracks not present")
	}
	rest := page[idx+len(tracksMarker):]

	depth := 0
	end := -1
	inString := false
	escaped := false
	for i := 0; i < len(rest) && end == -1; i++ {
		c := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
	}
	if end == -1 {
		return nil, fmt.Errorf("unterminated captionTracks array")
	}

	var tracks []track
	if err := json.Unmarshal(rest[:end], &tracks); err != nil {
		return nil, fmt.Errorf("decode captionTracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("empty captionTracks")
	}
	return tracks, nil
}

// pickTrack selects the caption track to use: a manual track in the
// first preferred language wins, then an auto-generated one, walking
// the preference list in order.
func pickTrack(tracks []track, langs []string) (track, bool) {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	return track{}, false
}

// parseTimedText flattens a timedtext XML document into plain text,
// fragments joined by single spaces in source order.
func parseTimedText(raw []byte) (string, error) {
	var doc struct {
		Texts []struct {
			Body string `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}

	var sb strings.Builder
	for _, t := range doc.Texts {
		frag := strings.TrimSpace(html.UnescapeString(t.Body))
		if frag == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(frag)
	}
	return sb.String(), nil
}
