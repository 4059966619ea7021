package match

import (
	"sort"
)

// minSuggestionScore is the similarity below which a name is not offered as a suggestion.
const minSuggestionScore = 0.5

// Candidate represents a known name that an unresolved identifier may have meant.
type Candidate struct {
	Name string

	// NameScore is the normalized Levenshtein similarity (0-1).
	NameScore float64
	// Distance is the raw edit distance between the two spellings.
	Distance int
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against an unresolved one.
// Returns candidates sorted by score (descending), then by name for stability.
func RankCandidates(unresolved string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, name := range known {
		if name == "" {
			continue
		}

		candidates = append(candidates, Candidate{
			Name:      name,
			NameScore: Similarity(unresolved, name),
			Distance:  Levenshtein(unresolved, name),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].NameScore != candidates[j].NameScore {
			return candidates[i].NameScore > candidates[j].NameScore
		}

		return candidates[i].Name < candidates[j].Name
	})

	return candidates
}

// Best returns the top candidate if it is similar enough to be worth suggesting.
func (l CandidateList) Best() (Candidate, bool) {
	if len(l) == 0 || l[0].NameScore < minSuggestionScore {
		return Candidate{}, false
	}

	return l[0], true
}

// Closest returns the known name most similar to unresolved, if any is close.
func Closest(unresolved string, known []string) (string, bool) {
	best, ok := RankCandidates(unresolved, known).Best()
	if !ok {
		return "", false
	}

	return best.Name, true
}
