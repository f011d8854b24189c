package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreWorkedExample(t *testing.T) {
	result := Score(
		[]string{"SkillA", "SkillB"},
		[]string{"SkillC"},
		[]string{"SkillA", "SkillB", "SkillD"},
	)

	assert.Equal(t, 70, result.Score)
	assert.Equal(t, []string{"SkillA", "SkillB"}, result.Skills.Matched)
	assert.Equal(t, []string{"SkillC"}, result.Skills.Missing)
	assert.Equal(t, []string{"SkillD"}, result.Skills.Additional)
}

func TestScoreFullCoverage(t *testing.T) {
	result := Score(
		[]string{"Go", "SQL"},
		[]string{"Docker"},
		[]string{"Go", "SQL", "Docker", "Kubernetes"},
	)

	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Skills.Missing)
}

func TestScoreNoOverlap(t *testing.T) {
	result := Score(
		[]string{"Go"},
		[]string{"Docker"},
		[]string{"Painting"},
	)

	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.Skills.Matched)
	assert.Equal(t, []string{"Go", "Docker"}, result.Skills.Missing)
	assert.Equal(t, []string{"Painting"}, result.Skills.Additional)
}

func TestScoreEmptyJobListsDefaultToFullWeight(t *testing.T) {
	// A job with no skill requirements cannot penalize any candidate.
	result := Score(nil, nil, []string{"Go"})
	assert.Equal(t, 100, result.Score)

	// Empty required list contributes the full 70 even with preferred misses.
	result = Score(nil, []string{"Docker"}, []string{"Go"})
	assert.Equal(t, 70, result.Score)
}

func TestScoreCaseInsensitive(t *testing.T) {
	result := Score([]string{"Go", "PostgreSQL"}, nil, []string{"go", "postgresql"})

	assert.Equal(t, 100, result.Score)
	// Matched names keep the job's casing.
	assert.Equal(t, []string{"Go", "PostgreSQL"}, result.Skills.Matched)
}

func TestScoreRounding(t *testing.T) {
	// 70 * 1/3 = 23.33 -> preferred empty adds 30 -> 53.33 rounds to 53.
	result := Score([]string{"A", "B", "C"}, nil, []string{"A"})
	assert.Equal(t, 53, result.Score)

	// 70 * 2/3 = 46.67 + 30 = 76.67 rounds to 77.
	result = Score([]string{"A", "B", "C"}, nil, []string{"A", "B"})
	assert.Equal(t, 77, result.Score)
}

func TestScoreBoundsAndPartitionProperties(t *testing.T) {
	cases := []struct {
		name                          string
		required, preferred, skills   []string
	}{
		{"empty everything", nil, nil, nil},
		{"only candidate", nil, nil, []string{"Go", "Rust"}},
		{"only job", []string{"Go"}, []string{"SQL"}, nil},
		{"partial", []string{"Go", "SQL", "Redis"}, []string{"Docker", "AWS"}, []string{"Go", "AWS", "React"}},
		{"duplicate candidate skills", []string{"Go"}, nil, []string{"Go", "go", "React", "react"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Score(tc.required, tc.preferred, tc.skills)

			require.GreaterOrEqual(t, result.Score, 0)
			require.LessOrEqual(t, result.Score, 100)

			inMatched := toLowerSet(result.Skills.Matched)
			inMissing := toLowerSet(result.Skills.Missing)
			inAdditional := toLowerSet(result.Skills.Additional)

			for skill := range inMatched {
				assert.NotContains(t, inMissing, skill, "matched and missing must be disjoint")
				assert.NotContains(t, inAdditional, skill, "matched and additional must be disjoint")
			}

			// The partition covers the union of job and candidate skills.
			union := toLowerSet(append(append(append([]string{}, tc.required...), tc.preferred...), tc.skills...))
			covered := toLowerSet(append(append(append([]string{}, result.Skills.Matched...), result.Skills.Missing...), result.Skills.Additional...))
			assert.Equal(t, union, covered)
		})
	}
}

func toLowerSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[normalize(s)] = struct{}{}
	}
	return set
}
