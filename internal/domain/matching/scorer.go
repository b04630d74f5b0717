package matching

import (
	"math"
	"strings"
)

// Score computes a compatibility score in [0,100] between an applicant's
// skill/interest sets and a job's tag set. Tokens are compared
// case-insensitively after trimming; duplicate tokens collapse. An empty tag
// set scores 0 rather than 100: a posting that declares no requirements
// matches nobody in particular.
func Score(skills, interests, tags []string) int {
	tagSet := normalize(tags)
	if len(tagSet) == 0 {
		return 0
	}

	have := normalize(skills)
	for tok := range normalize(interests) {
		have[tok] = struct{}{}
	}

	overlap := 0
	for tok := range tagSet {
		if _, ok := have[tok]; ok {
			overlap++
		}
	}

	score := int(math.Round(100 * float64(overlap) / float64(len(tagSet))))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func normalize(tokens []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out[t] = struct{}{}
	}
	return out
}
