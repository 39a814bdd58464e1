package recommend

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball"
)

// StemmedKeywordExtractor is the offline fallback when the theme model is
// unavailable: stop-word removal, snowball stemming, then the most frequent
// stems win. Quality is below the LLM path but it never needs the network.
type StemmedKeywordExtractor struct {
	stopWords map[string]bool
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

func NewStemmedKeywordExtractor() *StemmedKeywordExtractor {
	stopWords := map[string]bool{
		"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
		"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
		"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
		"that": true, "the": true, "to": true, "was": true, "were": true, "will": true,
		"with": true, "would": true, "could": true, "should": true, "may": true,
		"might": true, "can": true, "must": true, "shall": true, "do": true,
		"does": true, "did": true, "have": true, "had": true, "this": true,
		"these": true, "they": true, "them": true, "their": true, "his": true,
		"her": true, "she": true, "we": true, "you": true, "your": true,
		"our": true, "us": true, "me": true, "my": true, "i": true,
		"not": true, "about": true, "want": true, "like": true, "how": true,
	}

	return &StemmedKeywordExtractor{stopWords: stopWords}
}

func (e *StemmedKeywordExtractor) ExtractKeywords(_ context.Context, noteTexts []string) ([]string, error) {
	counts := make(map[string]int)
	firstForm := make(map[string]string)

	for _, text := range noteTexts {
		text = nonWord.ReplaceAllString(strings.ToLower(text), " ")
		for _, word := range strings.Fields(text) {
			if len(word) < 3 || e.stopWords[word] {
				continue
			}

			stem, err := snowball.Stem(word, "english", true)
			if err != nil || stem == "" {
				stem = word
			}

			counts[stem]++
			if _, ok := firstForm[stem]; !ok {
				// Keep the surface form; stems make poor search terms.
				firstForm[stem] = word
			}
		}
	}

	stems := make([]string, 0, len(counts))
	for stem := range counts {
		stems = append(stems, stem)
	}
	sort.Slice(stems, func(i, j int) bool {
		if counts[stems[i]] != counts[stems[j]] {
			return counts[stems[i]] > counts[stems[j]]
		}
		return stems[i] < stems[j]
	})

	if len(stems) > maxKeywords {
		stems = stems[:maxKeywords]
	}

	keywords := make([]string, len(stems))
	for i, stem := range stems {
		keywords[i] = firstForm[stem]
	}
	return keywords, nil
}
