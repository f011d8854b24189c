// Package matching computes deterministic candidate/job fit from explicit
// skill lists. It has no external dependencies and serves both the
// pre-application match preview and the fallback path when AI analysis is
// unavailable.
package matching

import (
	"math"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"talenthub/internal/domain"
)

const (
	requiredWeight  = 70.0
	preferredWeight = 30.0
)

// Score computes the weighted match score and the three-way skill partition.
// Comparison is case-insensitive; returned skill names keep the casing of the
// list they came from (job casing for matched/missing, candidate casing for
// additional).
func Score(required, preferred, candidate []string) domain.MatchResult {
	candidateSet := normalizedSet(candidate)
	jobSet := normalizedSet(required).Union(normalizedSet(preferred))

	var matched, missing []string
	matchedRequired := 0
	for _, skill := range required {
		if candidateSet.Contains(normalize(skill)) {
			matched = append(matched, skill)
			matchedRequired++
		} else {
			missing = append(missing, skill)
		}
	}
	matchedPreferred := 0
	for _, skill := range preferred {
		if candidateSet.Contains(normalize(skill)) {
			matched = append(matched, skill)
			matchedPreferred++
		} else {
			missing = append(missing, skill)
		}
	}

	var additional []string
	seen := mapset.NewSet[string]()
	for _, skill := range candidate {
		key := normalize(skill)
		if !jobSet.Contains(key) && seen.Add(key) {
			additional = append(additional, skill)
		}
	}

	requiredScore := requiredWeight
	if len(required) > 0 {
		requiredScore = requiredWeight * float64(matchedRequired) / float64(len(required))
	}
	preferredScore := preferredWeight
	if len(preferred) > 0 {
		preferredScore = preferredWeight * float64(matchedPreferred) / float64(len(preferred))
	}

	return domain.MatchResult{
		Score: int(math.Round(requiredScore + preferredScore)),
		Skills: domain.SkillPartition{
			Matched:    matched,
			Missing:    missing,
			Additional: additional,
		},
	}
}

// ScoreJob is a convenience wrapper splitting the job's skill list by importance.
func ScoreJob(job *domain.Job, candidate []string) domain.MatchResult {
	required, preferred := job.SkillsByImportance()
	return Score(required, preferred, candidate)
}

func normalize(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func normalizedSet(skills []string) mapset.Set[string] {
	set := mapset.NewSetWithSize[string](len(skills))
	for _, s := range skills {
		set.Add(normalize(s))
	}
	return set
}
