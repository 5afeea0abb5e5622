package recommend

import (
	"context"
	"fmt"
	"log/slog"

	"swipr/internal/domain"
	"swipr/internal/ports"
)

const (
	// candidateLimit bounds how many unrated entries feed one request.
	candidateLimit = 100

	minBatchSize = 1
	maxBatchSize = 5
)

// ModelProvider yields the current relevance model, or nil when no
// model is loaded. The engine captures one snapshot per request so a
// concurrent model swap never mixes versions within a batch.
type ModelProvider interface {
	Current() ports.RelevanceModel
}

// Pick is one chosen article plus how it was chosen.
type Pick struct {
	Article domain.Article
	// Scored is true for the model-scored path, false for the
	// uniform-random fallback.
	Scored bool
}

// Deps wires the driven adapters into the engine.
type Deps struct {
	Store  ports.EntryStore
	Models ModelProvider
	Rand   Rand
	Logger *slog.Logger
}

// Engine orchestrates one recommendation request: supplier, scorer,
// selection policy, and the fallback fill. Stateless across requests.
type Engine struct {
	store  ports.EntryStore
	models ModelProvider
	rng    Rand
	logger *slog.Logger
}

// NewEngine constructs the orchestration component.
func NewEngine(deps Deps) *Engine {
	return &Engine{
		store:  deps.Store,
		models: deps.Models,
		rng:    deps.Rand,
		logger: deps.Logger,
	}
}

// Next returns the single best next article, or nil when no unrated
// article remains. The scored path is tried first; any shortfall or
// failure degrades to the uniform-random fallback.
func (e *Engine) Next(ctx context.Context, excludeIDs []int64) (*Pick, error) {
	picks, err := e.recommend(ctx, 1, excludeIDs)
	if err != nil {
		return nil, err
	}
	if len(picks) == 0 {
		return nil, nil
	}
	return &picks[0], nil
}

// Batch returns up to count articles with no duplicates. count is
// clamped to [1, 5]; the result may be shorter when the pool is
// exhausted, and empty when nothing unrated remains.
func (e *Engine) Batch(ctx context.Context, count int, excludeIDs []int64) ([]Pick, error) {
	if count < minBatchSize {
		count = minBatchSize
	}
	if count > maxBatchSize {
		count = maxBatchSize
	}
	return e.recommend(ctx, count, excludeIDs)
}

func (e *Engine) recommend(ctx context.Context, count int, excludeIDs []int64) ([]Pick, error) {
	picks := e.scoredPicks(ctx, count, excludeIDs)

	// Shortfall filling is mandatory: a partial scoring failure must
	// never return fewer items than the fallback could supply.
	if len(picks) < count {
		exclude := make([]int64, 0, len(excludeIDs)+len(picks))
		exclude = append(exclude, excludeIDs...)
		for _, p := range picks {
			exclude = append(exclude, p.Article.ID)
		}

		fallback, err := e.store.ListRandomUnrated(ctx, count-len(picks), exclude)
		if err != nil {
			if len(picks) > 0 {
				e.warn("fallback fill failed", "error", err)
				return picks, nil
			}
			return nil, fmt.Errorf("fallback selection: %w", err)
		}

		for _, article := range fallback {
			picks = append(picks, Pick{Article: article, Scored: false})
		}
	}

	return picks, nil
}

// scoredPicks runs the model-scored path. All failures are absorbed:
// an unloaded model, a supplier error, or scoring failures simply
// yield fewer (possibly zero) picks for the fallback to top up.
func (e *Engine) scoredPicks(ctx context.Context, count int, excludeIDs []int64) []Pick {
	model := e.models.Current()
	if model == nil {
		return nil
	}

	candidates, err := e.store.ListUnrated(ctx, candidateLimit, excludeIDs)
	if err != nil {
		e.warn("candidate retrieval failed", "error", err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	scored := NewScorer(model, e.logger).ScoreAll(ctx, candidates)
	if len(scored) == 0 {
		return nil
	}

	selected := Select(scored, count, e.rng)
	picks := make([]Pick, 0, len(selected))
	for _, s := range selected {
		picks = append(picks, Pick{Article: s.Article, Scored: true})
	}
	return picks
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
