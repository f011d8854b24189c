package domain

// AnalysisResult is the structured output of resume analysis, produced either
// by the external text-generation service or assembled from the deterministic
// matcher when the service is unavailable. The generator may answer in the
// extraction shape, the match shape, or both; absent fields stay zero.
type AnalysisResult struct {
	Skills     []string `json:"skills,omitempty"`
	Experience []string `json:"experience,omitempty"`
	Education  []string `json:"education,omitempty"`

	OverallMatchScore *int         `json:"overall_match_score,omitempty"`
	SkillScores       []SkillScore `json:"skill_scores,omitempty"`
	Strengths         []string     `json:"strengths,omitempty"`
	Gaps              []string     `json:"gaps,omitempty"`
	Recommendation    string       `json:"recommendation,omitempty"`

	// RawText holds the generator reply when only heuristics could parse it.
	RawText string `json:"raw_text,omitempty"`
}

type SkillScore struct {
	Skill string `json:"skill"`
	Score int    `json:"score"`
}

// JobContext is the optional job side of an analysis request.
type JobContext struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// MatchResult is a deterministic score plus skill partition, also used as the
// match-preview response body.
type MatchResult struct {
	Score  int            `json:"match_score"`
	Skills SkillPartition `json:"skills"`
}
