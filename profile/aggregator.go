package profile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"noteboard/repository"
	"noteboard/vectormath"
)

// Aggregator recomputes a user's profile vector from their current note set.
// The profile is a derived cache of the notes; recomputation runs
// synchronously after every note mutation so its staleness is bounded to
// zero across observable requests.
type Aggregator struct {
	store    repository.NoteStore
	profiles repository.ProfileVectorRepo
	policy   vectormath.Policy
	logger   *zap.Logger
}

func NewAggregator(store repository.NoteStore, profiles repository.ProfileVectorRepo, policy vectormath.Policy, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		store:    store,
		profiles: profiles,
		policy:   policy,
		logger:   logger,
	}
}

// Recompute reads the user's full current note set and upserts the
// aggregated profile vector. With zero notes it writes nothing, leaving any
// previous profile in place; deleting the last note intentionally does not
// clear the profile.
func (a *Aggregator) Recompute(ctx context.Context, userID string) error {
	notes, err := a.store.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("err list notes for profile: %w", err)
	}

	if len(notes) == 0 {
		a.logger.Debug("no notes, skipping profile recompute",
			zap.String("user_id", userID))
		return nil
	}

	embeddings := make([][]float32, 0, len(notes))
	for _, n := range notes {
		if len(n.Embedding) == 0 {
			continue
		}
		embeddings = append(embeddings, n.Embedding)
	}
	if len(embeddings) == 0 {
		return nil
	}

	combined, err := vectormath.Aggregate(embeddings, a.policy)
	if err != nil {
		return fmt.Errorf("err aggregate note embeddings: %w", err)
	}

	if err := a.profiles.UpsertProfile(ctx, userID, combined); err != nil {
		return fmt.Errorf("err upsert profile: %w", err)
	}

	a.logger.Debug("profile recomputed",
		zap.String("user_id", userID),
		zap.Int("note_count", len(embeddings)))
	return nil
}
