package posts

import (
	"regexp"
	"strings"
)

// Platform labels, exactly as the prompt instructs the backend to emit
// them. Matching is case-sensitive.
const (
	labelLinkedIn  = "LinkedIn"
	labelInstagram = "Instagram"
	labelTwitter   = "Twitter"
)

// Bundle holds one post body per platform. All three keys are always
// present; an empty string means the backend's output had no section
// for that platform, which is tolerated, not an error.
type Bundle struct {
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
}

// markerRE matches a section marker anywhere in the blob.
var markerRE = regexp.MustCompile(`\*\*(LinkedIn|Instagram|Twitter) Post\*\*`)

type marker struct {
	label      string
	start, end int
}

// Segment splits the backend's raw output into per-platform bodies.
// Each platform's body runs from the end of its first marker to the
// start of the next marker of any platform, or end of text. Total for
// any input: malformed output degrades to empty sections.
func Segment(raw string) Bundle {
	var markers []marker
	for _, m := range markerRE.FindAllStringSubmatchIndex(raw, -1) {
		markers = append(markers, marker{
			label: raw[m[2]:m[3]],
			start: m[0],
			end:   m[1],
		})
	}

	section := func(label string) string {
		for i, m := range markers {
			if m.label != label {
				continue
			}
			stop := len(raw)
			if i+1 < len(markers) {
				stop = markers[i+1].start
			}
			return strings.TrimSpace(raw[m.end:stop])
		}
		return ""
	}

	return Bundle{
		LinkedIn:  section(labelLinkedIn),
		Instagram: section(labelInstagram),
		Twitter:   section(labelTwitter),
	}
}
