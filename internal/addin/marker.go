package addin

import "strings"

// Marker comments delimit the managed signature region inside a draft
// body. Replacing the region instead of appending keeps repeated
// insertions idempotent.
const (
	startMarker = "<!-- gsig -->"
	endMarker   = "<!-- /gsig -->"

	// legacyMarker is the single marker older deployments stamped into
	// messages. Still recognized for thread detection.
	legacyMarker = "<!-- guschlbauer-signature -->"
)

// Wrap surrounds a signature with the managed-region markers.
func Wrap(sigHTML string) string {
	return startMarker + "\n" + sigHTML + "\n" + endMarker
}

// HasSignature reports whether body contains a managed signature,
// current or legacy format.
func HasSignature(body string) bool {
	return strings.Contains(body, startMarker) || strings.Contains(body, legacyMarker)
}

// Apply inserts sigHTML into body. An existing managed region is
// replaced in place; otherwise the wrapped signature is appended.
func Apply(body, sigHTML string) string {
	start := strings.Index(body, startMarker)
	if start >= 0 {
		rest := body[start+len(startMarker):]
		end := strings.Index(rest, endMarker)
		if end >= 0 {
			after := rest[end+len(endMarker):]
			return body[:start] + Wrap(sigHTML) + after
		}
		// Start marker without end marker, treat everything after it
		// as the stale region.
		return body[:start] + Wrap(sigHTML)
	}

	if body == "" {
		return Wrap(sigHTML)
	}
	return body + "\n<br/><br/>\n" + Wrap(sigHTML)
}
