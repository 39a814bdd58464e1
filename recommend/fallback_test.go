package recommend

import (
	"context"
	"testing"
)

func TestStemmedExtractorDropsStopWords(t *testing.T) {
	e := NewStemmedKeywordExtractor()

	keywords, err := e.ExtractKeywords(context.Background(), []string{
		"I want to learn about kubernetes and the cloud",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, kw := range keywords {
		if kw == "the" || kw == "and" || kw == "about" || kw == "want" {
			t.Errorf("stop word %q survived extraction: %v", kw, keywords)
		}
	}
	if !contains(keywords, "kubernetes") {
		t.Errorf("expected kubernetes in keywords, got %v", keywords)
	}
}

func TestStemmedExtractorFrequencyRanking(t *testing.T) {
	e := NewStemmedKeywordExtractor()

	keywords, err := e.ExtractKeywords(context.Background(), []string{
		"golang golang golang testing",
		"golang testing deployment",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keywords) == 0 || keywords[0] != "golang" {
		t.Errorf("expected most frequent term first, got %v", keywords)
	}
}

func TestStemmedExtractorMergesInflections(t *testing.T) {
	e := NewStemmedKeywordExtractor()

	keywords, err := e.ExtractKeywords(context.Background(), []string{
		"testing tests tested databases database",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Five surface forms, but stemming folds them into two stems.
	if len(keywords) != 2 {
		t.Errorf("expected 2 stemmed keywords, got %v", keywords)
	}
}

func TestStemmedExtractorLimit(t *testing.T) {
	e := NewStemmedKeywordExtractor()

	keywords, err := e.ExtractKeywords(context.Background(), []string{
		"alpha beta gamma delta epsilon zeta eta theta",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keywords) > maxKeywords {
		t.Errorf("expected at most %d keywords, got %d", maxKeywords, len(keywords))
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
