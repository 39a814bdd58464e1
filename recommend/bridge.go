package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"noteboard/repository"
)

// ErrNoNotes is returned when the user has no indexed notes to derive
// recommendations from. It is distinct from an upstream failure and from a
// genuinely empty catalog result, so callers can render each case.
var ErrNoNotes = errors.New("recommend: no notes to derive keywords from")

const (
	noteLimit     = 4
	candidatePool = 150
)

// Bridge turns a user's profile vector into course recommendations: it
// retrieves the notes most relevant to the profile, derives search keywords
// from their text, and queries the course catalog.
type Bridge struct {
	notes     repository.NoteVectorRepo
	extractor KeywordExtractor
	fallback  KeywordExtractor
	catalog   Catalog
	logger    *zap.Logger
}

func NewBridge(notes repository.NoteVectorRepo, extractor, fallback KeywordExtractor, catalog Catalog, logger *zap.Logger) *Bridge {
	return &Bridge{
		notes:     notes,
		extractor: extractor,
		fallback:  fallback,
		catalog:   catalog,
		logger:    logger,
	}
}

// Recommend returns catalog listings for the user's profile. An empty,
// error-free result means the catalog found nothing for the derived
// keywords; failures are returned as errors, never collapsed into an empty
// list.
func (b *Bridge) Recommend(ctx context.Context, userID string, profileVector []float32) ([]CourseListing, error) {
	matches, err := b.notes.SearchNotes(ctx, profileVector, userID, noteLimit, candidatePool)
	if err != nil {
		return nil, fmt.Errorf("err retrieve profile notes: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNoNotes
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Title + "\n" + m.Content
	}

	keywords, err := b.extractor.ExtractKeywords(ctx, texts)
	if err != nil {
		b.logger.Warn("theme extraction failed, falling back to stemmed keywords",
			zap.String("user_id", userID),
			zap.Error(err))
		keywords, err = b.fallback.ExtractKeywords(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("err extract keywords: %w", err)
		}
	}
	if len(keywords) == 0 {
		return nil, ErrNoNotes
	}

	query := strings.Join(keywords, " ")
	listings, err := b.catalog.SearchCourses(ctx, query)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("catalog search complete",
		zap.String("user_id", userID),
		zap.String("query", query),
		zap.Int("listings", len(listings)))

	return FilterListings(listings, keywords), nil
}
