package letter

import (
	"regexp"
	"strconv"
)

// footerMarkerRE matches the per-page footer counter printed on every letter
// page. The keywords are case-sensitive; only the surrounding whitespace is
// flexible.
var footerMarkerRE = regexp.MustCompile(`Page\s+(\d+)\s+of\s+(\d+)`)

// ParseFooterMarker extracts the (current, total) footer counter from a
// page's text. The first match in the text wins; the marker is not anchored
// to the physical footer position. Returns false when the page carries no
// parsable marker.
func ParseFooterMarker(text string) (FooterMarker, bool) {
	m := footerMarkerRE.FindStringSubmatch(text)
	if m == nil {
		return FooterMarker{}, false
	}

	current, err := strconv.Atoi(m[1])
	if err != nil {
		return FooterMarker{}, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil {
		return FooterMarker{}, false
	}

	return FooterMarker{Current: current, Total: total}, true
}
