package recommend

import (
	"testing"

	"insight_server/core/domain"
)

func sentimentReport(positive, negative float64) *domain.SentimentReport {
	return &domain.SentimentReport{
		TotalAnalyzed: 100,
		Distribution: map[string]domain.CategoryStat{
			domain.SentimentPositive: {Percentage: positive},
			domain.SentimentNegative: {Percentage: negative},
			domain.SentimentNeutral:  {Percentage: 100 - positive - negative},
		},
	}
}

func emotionReport(joy, anger, sadness, fear, disgust float64) *domain.EmotionReport {
	return &domain.EmotionReport{
		TotalAnalyzed: 100,
		Distribution: map[string]domain.CategoryStat{
			domain.EmotionJoy:     {Percentage: joy},
			domain.EmotionAnger:   {Percentage: anger},
			domain.EmotionSadness: {Percentage: sadness},
			domain.EmotionFear:    {Percentage: fear},
			domain.EmotionDisgust: {Percentage: disgust},
		},
	}
}

func statsReport(avgEngagement float64) *domain.StatsWithDelta {
	return &domain.StatsWithDelta{
		BasicStats: domain.BasicStats{TotalPosts: 10, AvgEngagement: avgEngagement},
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want float64
	}{
		{name: "top tier", avg: 250, want: 100},
		{name: "top tier boundary", avg: 200, want: 100},
		{name: "second tier", avg: 150, want: 75},
		{name: "second tier boundary", avg: 100, want: 75},
		{name: "third tier boundary", avg: 50, want: 50},
		{name: "linear below 50", avg: 25, want: 25},
		{name: "zero", avg: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engagementScore(tt.avg); got != tt.want {
				t.Errorf("engagementScore(%v) = %v, want %v", tt.avg, got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		in          Inputs
		wantOverall float64
		wantRating  string
	}{
		{
			name: "everything strong is excellent",
			in: Inputs{
				Sentiment: sentimentReport(90, 5),
				Emotion:   emotionReport(80, 5, 5, 0, 0),
				Stats:     statsReport(250),
			},
			// sentiment 90-5+50 -> 100 clamped; emotion 80-10+50 -> 100 clamped
			wantOverall: 100,
			wantRating:  "Excellent",
		},
		{
			name: "mixed corpus is fair",
			in: Inputs{
				Sentiment: sentimentReport(30, 30), // 50
				Emotion:   emotionReport(20, 20, 10, 0, 0),
				Stats:     statsReport(50), // 50
			},
			// 50*0.35 + 40*0.35 + 50*0.30 = 46.5
			wantOverall: 46.5,
			wantRating:  "Fair",
		},
		{
			name:        "no inputs is poor",
			in:          Inputs{},
			wantOverall: 0,
			wantRating:  "Poor",
		},
		{
			name: "negative corpus clamps at zero",
			in: Inputs{
				Sentiment: sentimentReport(5, 90), // 5-90+50 = -35 -> 0
				Emotion:   emotionReport(0, 60, 30, 0, 10),
				Stats:     statsReport(0),
			},
			wantOverall: 0,
			wantRating:  "Poor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.in)
			if got.OverallScore != tt.wantOverall {
				t.Errorf("OverallScore = %v, want %v", got.OverallScore, tt.wantOverall)
			}
			if got.Rating != tt.wantRating {
				t.Errorf("Rating = %q, want %q", got.Rating, tt.wantRating)
			}
		})
	}
}

func TestScoreRatingBoundaries(t *testing.T) {
	// Engagement is the only contributor: avg 200 scores 100 engagement,
	// weighted 0.30 -> overall 30.
	got := Score(Inputs{Stats: statsReport(200)})
	if got.OverallScore != 30 || got.Rating != "Poor" {
		t.Errorf("Score = %v (%s), want 30 (Poor)", got.OverallScore, got.Rating)
	}

	in := Inputs{
		Sentiment: sentimentReport(50, 20), // 50-20+50 = 80
		Emotion:   emotionReport(40, 5, 5, 0, 0),
		Stats:     statsReport(100), // second tier -> 75
	}
	got = Score(in)
	if got.SentimentScore != 80 || got.EmotionScore != 80 || got.EngagementScore != 75 {
		t.Fatalf("sub-scores = %v/%v/%v, want 80/80/75",
			got.SentimentScore, got.EmotionScore, got.EngagementScore)
	}
	// 80*0.35 + 80*0.35 + 75*0.30 = 78.5
	if got.OverallScore != 78.5 || got.Rating != "Good" {
		t.Errorf("Score = %v (%s), want 78.5 (Good)", got.OverallScore, got.Rating)
	}
}

func TestSynthesizeRuleThresholds(t *testing.T) {
	tests := []struct {
		name         string
		in           Inputs
		wantCategory string
		wantPriority string
	}{
		{
			name:         "negative above 40 is critical",
			in:           Inputs{Sentiment: sentimentReport(50, 41)},
			wantCategory: "reputation",
			wantPriority: domain.PriorityCritical,
		},
		{
			name:         "negative above 25 is high",
			in:           Inputs{Sentiment: sentimentReport(50, 26)},
			wantCategory: "reputation",
			wantPriority: domain.PriorityHigh,
		},
		{
			name:         "low positive share",
			in:           Inputs{Sentiment: sentimentReport(39, 10)},
			wantCategory: "content_strategy",
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "neutral above 50",
			in:           Inputs{Sentiment: sentimentReport(40, 9)},
			wantCategory: "engagement",
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "anger above 15 is critical",
			in:           Inputs{Emotion: emotionReport(10, 16, 0, 0, 0)},
			wantCategory: "crisis_management",
			wantPriority: domain.PriorityCritical,
		},
		{
			name:         "fear above 5 is high",
			in:           Inputs{Emotion: emotionReport(50, 0, 0, 6, 0)},
			wantCategory: "communication",
			wantPriority: domain.PriorityHigh,
		},
		{
			name:         "sadness above 25 is high",
			in:           Inputs{Emotion: emotionReport(50, 0, 26, 0, 0)},
			wantCategory: "customer_care",
			wantPriority: domain.PriorityHigh,
		},
		{
			name:         "joy below 25",
			in:           Inputs{Emotion: emotionReport(24, 0, 0, 0, 0)},
			wantCategory: "customer_experience",
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "disgust above 5 is critical",
			in:           Inputs{Emotion: emotionReport(50, 0, 0, 0, 6)},
			wantCategory: "product_quality",
			wantPriority: domain.PriorityCritical,
		},
		{
			name:         "low engagement",
			in:           Inputs{Stats: statsReport(9)},
			wantCategory: "engagement",
			wantPriority: domain.PriorityMedium,
		},
		{
			name: "peak window timing",
			in: Inputs{Activity: &domain.ActivityReport{
				PeakRanges: []domain.PeakRange{{Range: "19:00 - 21:00", AvgActivity: 12}},
			}},
			wantCategory: "timing",
			wantPriority: domain.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Synthesize(tt.in)
			found := false
			for _, rec := range report.Recommendations {
				if rec.Category == tt.wantCategory && rec.Priority == tt.wantPriority {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no %s/%s recommendation in %+v",
					tt.wantCategory, tt.wantPriority, report.Recommendations)
			}
		})
	}
}

func TestSynthesizeThresholdsAreStrict(t *testing.T) {
	// Every percentage sits exactly on its threshold; none may fire.
	// Sentiment: positive 40 (not <40), negative 10, neutral 50 (not >50).
	// Emotion: joy 25 (not <25), anger 15, sadness 25, fear 5, disgust 5.
	report := Synthesize(Inputs{
		Sentiment: sentimentReport(40, 10),
		Emotion:   emotionReport(25, 15, 25, 5, 5),
		Stats:     statsReport(10),
	})
	if len(report.Recommendations) != 0 {
		t.Errorf("got %d recommendations at exact thresholds, want 0", len(report.Recommendations))
	}
}

func TestSynthesizePriorityOrderAndActions(t *testing.T) {
	report := Synthesize(Inputs{
		Sentiment: sentimentReport(20, 45), // critical negative + low positive
		Emotion:   emotionReport(5, 20, 30, 10, 0),
		Stats:     statsReport(5),
		Activity: &domain.ActivityReport{
			PeakRanges: []domain.PeakRange{{Range: "19:00 - 21:00", AvgActivity: 12}},
		},
	})

	if report.TotalRecommendations != len(report.Recommendations) {
		t.Errorf("TotalRecommendations = %d, want %d",
			report.TotalRecommendations, len(report.Recommendations))
	}

	for i := 1; i < len(report.Recommendations); i++ {
		prev := domain.PriorityWeight(report.Recommendations[i-1].Priority)
		cur := domain.PriorityWeight(report.Recommendations[i].Priority)
		if prev > cur {
			t.Fatalf("recommendations out of priority order at %d: %s before %s",
				i, report.Recommendations[i-1].Priority, report.Recommendations[i].Priority)
		}
	}

	if len(report.PriorityActions) == 0 {
		t.Fatal("PriorityActions is empty")
	}
	if len(report.PriorityActions) > 5 {
		t.Errorf("PriorityActions = %d, want at most 5", len(report.PriorityActions))
	}
	for _, action := range report.PriorityActions {
		if action.Priority != domain.PriorityCritical && action.Priority != domain.PriorityHigh {
			t.Errorf("priority action has priority %q", action.Priority)
		}
	}
	// Criticals first: the reputation rule generates before crisis_management.
	if report.PriorityActions[0].Category != "reputation" {
		t.Errorf("first action category = %q, want reputation", report.PriorityActions[0].Category)
	}

	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestSynthesizeNilInputs(t *testing.T) {
	report := Synthesize(Inputs{})
	if len(report.Recommendations) != 0 || len(report.PriorityActions) != 0 {
		t.Errorf("empty inputs produced recommendations: %+v", report.Recommendations)
	}
	if len(report.Insights) != 0 {
		t.Errorf("empty inputs produced insights: %+v", report.Insights)
	}
	if report.Performance.Rating != "Poor" {
		t.Errorf("Rating = %q, want Poor", report.Performance.Rating)
	}
}

func TestSynthesizeTopicConcentration(t *testing.T) {
	report := Synthesize(Inputs{
		Topics: &domain.TopicReport{
			Engagement: []domain.TopicEngagement{
				{TopicLabel: "Network Complaints", TweetCount: 8},
				{TopicLabel: "Promos", TweetCount: 2},
			},
		},
	})

	found := false
	for _, rec := range report.Recommendations {
		if rec.Category == "content_strategy" && rec.Priority == domain.PriorityMedium {
			found = true
		}
	}
	if !found {
		t.Errorf("no concentration recommendation, got %+v", report.Recommendations)
	}

	// Even split stays quiet.
	report = Synthesize(Inputs{
		Topics: &domain.TopicReport{
			Engagement: []domain.TopicEngagement{
				{TopicLabel: "A", TweetCount: 5},
				{TopicLabel: "B", TweetCount: 5},
			},
		},
	})
	if len(report.Recommendations) != 0 {
		t.Errorf("even topic split produced %d recommendations, want 0", len(report.Recommendations))
	}
}

func TestInsightsDominantTieIsDeterministic(t *testing.T) {
	report := Synthesize(Inputs{
		Sentiment: sentimentReport(40, 40), // ties with neutral at 20; positive < negative alphabetically
	})

	var insight *domain.Insight
	for i := range report.Insights {
		if report.Insights[i].Category == "sentiment" {
			insight = &report.Insights[i]
		}
	}
	if insight == nil {
		t.Fatal("no sentiment insight")
	}
	if insight.Value != domain.SentimentNegative {
		t.Errorf("dominant sentiment = %q, want negative (lexicographic tie-break)", insight.Value)
	}
	if insight.Percentage != 40 {
		t.Errorf("dominant percentage = %v, want 40", insight.Percentage)
	}
}
