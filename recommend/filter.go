package recommend

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// FilterListings keeps listings whose title or headline mentions at least
// one of the derived keywords. When nothing matches, the unfiltered
// listings are returned: the catalog's own ranking is trusted over an
// over-aggressive keyword check.
func FilterListings(listings []CourseListing, keywords []string) []CourseListing {
	if len(listings) == 0 || len(keywords) == 0 {
		return listings
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	if len(lowered) == 0 {
		return listings
	}

	matcher := ahocorasick.NewStringMatcher(lowered)

	var kept []CourseListing
	for _, l := range listings {
		haystack := strings.ToLower(l.Title + " " + l.Headline)
		if len(matcher.Match([]byte(haystack))) > 0 {
			kept = append(kept, l)
		}
	}

	if len(kept) == 0 {
		return listings
	}
	return kept
}
