// Package video extracts canonical video identifiers from the URL
// shapes YouTube hands out.
package video

import (
	"errors"
	"strings"
)

// ErrInvalidURL marks a URL that is neither a watch link nor a short link.
var ErrInvalidURL = errors.New("invalid YouTube URL")

const (
	watchMarker     = "watch?v="
	shortLinkMarker = "youtu.be/"
)

// ExtractID pulls the video id out of a YouTube URL. Long-form watch
// URLs win over short links; no validation of the id itself happens
// here, downstream lookups treat malformed ids as "not found".
func ExtractID(rawURL string) (string, error) {
	if _, rest, ok := strings.Cut(rawURL, watchMarker); ok {
		id, _, _ := strings.Cut(rest, "&")
		return id, nil
	}
	if _, rest, ok := strings.Cut(rawURL, shortLinkMarker); ok {
		id, _, _ := strings.Cut(rest, "?")
		return id, nil
	}
	return "", ErrInvalidURL
}

// Reference pairs a raw URL with the id extracted from it.
type Reference struct {
	RawURL string
	ID     string
}

// ParseReference builds a Reference, failing when the URL matches none
// of the recognized shapes.
func ParseReference(rawURL string) (Reference, error) {
	id, err := ExtractID(rawURL)
	if err != nil {
		return Reference{}, err
	}
	return Reference{RawURL: rawURL, ID: id}, nil
}
