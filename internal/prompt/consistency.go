package prompt

import "scenegen/internal/domain"

// ConsistencyDirective pins the product's depicted appearance across every
// scene of a multi-scene batch.
const ConsistencyDirective = "Maintain identical product proportions, materials, and colors across all scenes in this batch."

// ApplyConsistency prepends the cross-scene directive to each positive prompt
// when the batch requests more than one scene. Single-scene batches pass
// through untouched.
func ApplyConsistency(pairs []domain.PromptPair) []domain.PromptPair {
	if len(pairs) <= 1 {
		return pairs
	}
	out := make([]domain.PromptPair, len(pairs))
	for i, pair := range pairs {
		out[i] = domain.PromptPair{
			Positive: ConsistencyDirective + " " + pair.Positive,
			Negative: pair.Negative,
		}
	}
	return out
}
