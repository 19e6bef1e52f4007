package domain

import "time"

// Recommendation priorities.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// PriorityWeight returns the sort weight for a priority; lower sorts first.
func PriorityWeight(priority string) int {
	switch priority {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

// Recommendation is a single actionable advice item.
type Recommendation struct {
	Category        string   `json:"category"`
	Priority        string   `json:"priority"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ActionableSteps []string `json:"actionable_steps"`
	Impact          string   `json:"impact"`
	Effort          string   `json:"effort"`
}

// PerformanceScore is the 0-100 account performance summary. Sub-scores are
// weighted 0.35 sentiment, 0.35 emotion, 0.30 engagement.
type PerformanceScore struct {
	SentimentScore  float64 `json:"sentiment_score"`
	EmotionScore    float64 `json:"emotion_score"`
	EngagementScore float64 `json:"engagement_score"`
	OverallScore    float64 `json:"overall_score"`
	Rating          string  `json:"rating"`
}

// Insight is a single best-of finding surfaced on the dashboard.
type Insight struct {
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Value       string  `json:"value"`
	Percentage  float64 `json:"percentage,omitempty"`
	Description string  `json:"description"`
}

// RecommendationReport is the synthesizer output.
type RecommendationReport struct {
	Insights             []Insight        `json:"insights"`
	Recommendations      []Recommendation `json:"recommendations"`
	PriorityActions      []Recommendation `json:"priority_actions"`
	Performance          PerformanceScore `json:"performance_score"`
	TotalRecommendations int              `json:"total_recommendations"`
	GeneratedAt          time.Time        `json:"generated_at"`
}
