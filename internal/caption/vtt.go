package caption

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astisub"
)

// fetchViaSidecar asks yt-dlp for a subtitle sidecar (no media
// download) and parses it. Covers videos whose caption tracks the watch
// page does not expose to plain HTTP clients.
func (f *Fetcher) fetchViaSidecar(ctx context.Context, videoID string, langs []string) (string, error) {
	if err := os.MkdirAll(f.workDir, 0o755); err != nil {
		return "", fmt.Errorf("create subtitle dir: %w", err)
	}

	out, err := f.run(ctx, "yt-dlp",
		"--write-sub", "--write-auto-sub",
		"--sub-format", "vtt",
		"--sub-langs", strings.Join(langs, ","),
		"--skip-download",
		"--no-playlist",
		"-o", filepath.Join(f.workDir, "%(id)s.%(ext)s"),
		"https://www.youtube.com/watch?v="+videoID,
	)
	if err != nil {
		return "", fmt.Errorf("yt-dlp subtitles: %w: %s", err, out)
	}

	matches, err := filepath.Glob(filepath.Join(f.workDir, videoID+"*.vtt"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no subtitle file produced for %s", videoID)
	}
	sidecar := pickSidecar(matches, langs)
	defer os.Remove(sidecar)

	return flattenSubtitles(sidecar)
}

// pickSidecar prefers the sidecar whose language suffix appears first
// in langs; otherwise the first match wins.
func pickSidecar(matches []string, langs []string) string {
	for _, lang := range langs {
		for _, m := range matches {
			if strings.HasSuffix(m, "."+lang+".vtt") {
				return m
			}
		}
	}
	return matches[0]
}

func flattenSubtitles(path string) (string, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("parse subtitles %s: %w", path, err)
	}

	var sb strings.Builder
	for _, item := range subs.Items {
		for _, line := range item.Lines {
			for _, li := range line.Items {
				frag := strings.TrimSpace(li.Text)
				if frag == "" {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(frag)
			}
		}
	}
	return sb.String(), nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
