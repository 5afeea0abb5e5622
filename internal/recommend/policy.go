package recommend

import "swipr/internal/domain"

// Rand is the injected randomness source for the selection policy.
// *math/rand.Rand satisfies it; tests supply deterministic stubs.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

const (
	// exploitProbability is the share of draws that take the
	// highest-utility candidate outright; the rest sample
	// proportionally to utility to keep future training signal
	// diverse.
	exploitProbability = 0.8

	// repeatFeedPenalty suppresses candidates whose feed already
	// contributed a pick in this batch. A soft constraint: a clearly
	// superior repeat-feed candidate can still win.
	repeatFeedPenalty = 0.3
)

// Scored is an ephemeral per-request candidate: the article, its
// outcome distribution, and the utility derived from both the
// distribution and the candidate's position in the supplier's order.
type Scored struct {
	Article  domain.Article
	Probs    domain.Probabilities
	Utility  float64
	Position int
}

// Select picks up to k candidates from the scored pool. Each pick
// re-applies the feed-diversity penalty against the feeds chosen so
// far, then draws exploit or explore. Returns fewer than k when the
// pool runs out; never errors.
func Select(pool []Scored, k int, rng Rand) []Scored {
	if k <= 0 || len(pool) == 0 {
		return nil
	}

	remaining := make([]Scored, len(pool))
	copy(remaining, pool)

	chosenFeeds := make(map[string]struct{})
	var selected []Scored

	for len(selected) < k && len(remaining) > 0 {
		adjusted := make([]float64, len(remaining))
		for i, candidate := range remaining {
			penalty := 1.0
			if _, repeat := chosenFeeds[candidate.Article.FeedName]; repeat {
				penalty = repeatFeedPenalty
			}
			adjusted[i] = candidate.Utility * penalty
		}

		var idx int
		if rng.Float64() < exploitProbability {
			idx = argmax(adjusted)
		} else {
			idx = sampleProportional(adjusted, rng)
		}

		choice := remaining[idx]
		selected = append(selected, choice)
		chosenFeeds[choice.Article.FeedName] = struct{}{}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return selected
}

// argmax returns the index of the largest value, first occurrence on
// ties.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// sampleProportional draws an index with probability proportional to
// its weight. When all weights are zero the draw is uniform, so the
// explore branch never divides by zero.
func sampleProportional(weights []float64, rng Rand) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	target := rng.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
