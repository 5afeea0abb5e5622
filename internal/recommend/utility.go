package recommend

import "swipr/internal/domain"

// Utility weighting: a predicted like is worth two neutrals, a
// dislike nothing. Fixed, not learned.
const (
	likeWeight    = 2.0
	neutralWeight = 1.0

	recencyBonus  = 0.2
	recencyWindow = 50
)

// BaseUtility collapses the outcome distribution to a scalar.
func BaseUtility(p domain.Probabilities) float64 {
	return likeWeight*p.Like + neutralWeight*p.Neutral
}

// RecencyBoost is a multiplicative bonus for candidates near the front
// of the supplier's order, decaying linearly to 1.0 by position 50.
// The supplier's ordering already encodes freshness with feed
// diversity; the boost nudges selection toward fresher picks without
// overriding a strong relevance signal.
func RecencyBoost(position int) float64 {
	remaining := float64(recencyWindow-position) / recencyWindow
	if remaining < 0 {
		remaining = 0
	}
	return 1 + recencyBonus*remaining
}

// Utility is the final per-candidate score.
func Utility(p domain.Probabilities, position int) float64 {
	return BaseUtility(p) * RecencyBoost(position)
}
