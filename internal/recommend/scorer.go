package recommend

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"swipr/internal/domain"
	"swipr/internal/ports"
)

const (
	defaultScoreTimeout = 2 * time.Second
	defaultScoreWorkers = 8
)

// Scorer scores a batch of candidates against one model snapshot.
// Candidates are scored concurrently but reassembled in input order;
// a failed candidate is dropped and the survivors close the gap, so
// positions in the result are contiguous.
type Scorer struct {
	model   ports.RelevanceModel
	timeout time.Duration
	workers int
	logger  *slog.Logger
}

// NewScorer binds a scorer to a single model snapshot for the
// lifetime of one request.
func NewScorer(model ports.RelevanceModel, logger *slog.Logger) *Scorer {
	return &Scorer{
		model:   model,
		timeout: defaultScoreTimeout,
		workers: defaultScoreWorkers,
		logger:  logger,
	}
}

// ScoreAll scores every candidate and returns the surviving ones with
// utilities assigned. A model failure for one candidate never aborts
// the batch.
func (s *Scorer) ScoreAll(ctx context.Context, candidates []domain.Article) []Scored {
	if s.model == nil || len(candidates) == 0 {
		return nil
	}

	results := make([]*domain.Probabilities, len(candidates))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = s.scoreOne(ctx, candidates[idx])
		}(i)
	}
	wg.Wait()

	scored := make([]Scored, 0, len(candidates))
	for i, probs := range results {
		if probs == nil {
			continue
		}
		position := len(scored)
		scored = append(scored, Scored{
			Article:  candidates[i],
			Probs:    *probs,
			Utility:  Utility(*probs, position),
			Position: position,
		})
	}

	return scored
}

// scoreOne bounds a single model call so a slow or failing prediction
// cannot stall the rest of the batch.
func (s *Scorer) scoreOne(ctx context.Context, article domain.Article) *domain.Probabilities {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	probs, err := s.model.Predict(callCtx, BuildFeatures(article))
	if err != nil {
		s.debug("scoring failed", "entry_id", article.ID, "error", err)
		return nil
	}

	return &probs
}

func (s *Scorer) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
