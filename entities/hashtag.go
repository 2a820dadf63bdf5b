package entities

import "strings"

const hashtagMarker = "#"

// ParseHashtags extracts hashtags from free text. Only whitespace separated
// tokens starting with '#' count; the marker is stripped and order and
// duplicates are kept. A bare '#' is dropped.
func ParseHashtags(raw string) []string {
	tags := []string{}
	for _, tok := range strings.Fields(raw) {
		if !strings.HasPrefix(tok, hashtagMarker) {
			continue
		}
		tag := strings.TrimPrefix(tok, hashtagMarker)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// NormalizeHashtags strips a leading marker from already split tags and
// drops empty entries.
func NormalizeHashtags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimPrefix(strings.TrimSpace(t), hashtagMarker)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
