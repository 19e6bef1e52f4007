// Package recommend synthesizes insights, prioritized recommendations and
// the performance score from the other engines' reports. It is a pure
// function of its inputs: every report is optional, and a missing or
// partial report silently skips its rules rather than failing the request.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"

	"insight_server/core/domain"
)

// Performance score weights and rating tiers.
const (
	weightSentiment  = 0.35
	weightEmotion    = 0.35
	weightEngagement = 0.30

	ratingExcellent = 80.0
	ratingGood      = 60.0
	ratingFair      = 40.0
)

// Rule thresholds. Domain configuration, kept in one place.
const (
	negativeCriticalPct   = 40.0
	negativeHighPct       = 25.0
	positiveLowPct        = 40.0
	neutralHighPct        = 50.0
	angerCriticalPct      = 15.0
	fearHighPct           = 5.0
	sadnessHighPct        = 25.0
	joyLowPct             = 25.0
	disgustCriticalPct    = 5.0
	lowEngagementAvg      = 10.0
	topicConcentrationPct = 50.0
	maxPriorityActions    = 5
)

// Inputs carries the upstream reports. Any field may be nil.
type Inputs struct {
	Sentiment *domain.SentimentReport
	Emotion   *domain.EmotionReport
	Topics    *domain.TopicReport
	Activity  *domain.ActivityReport
	Stats     *domain.StatsWithDelta
}

// Synthesize applies the rule battery over every present report and builds
// the combined recommendation report.
func Synthesize(in Inputs) *domain.RecommendationReport {
	recs := make([]domain.Recommendation, 0, 8)
	recs = append(recs, sentimentRules(in.Sentiment)...)
	recs = append(recs, emotionRules(in.Emotion)...)
	recs = append(recs, engagementRules(in.Stats)...)
	recs = append(recs, timingRules(in.Activity)...)
	recs = append(recs, topicRules(in.Topics)...)

	// Stable: equal priorities keep their generation order.
	sort.SliceStable(recs, func(i, j int) bool {
		return domain.PriorityWeight(recs[i].Priority) < domain.PriorityWeight(recs[j].Priority)
	})

	actions := make([]domain.Recommendation, 0, maxPriorityActions)
	for _, rec := range recs {
		if rec.Priority != domain.PriorityCritical && rec.Priority != domain.PriorityHigh {
			continue
		}
		actions = append(actions, rec)
		if len(actions) == maxPriorityActions {
			break
		}
	}

	return &domain.RecommendationReport{
		Insights:             insights(in),
		Recommendations:      recs,
		PriorityActions:      actions,
		Performance:          Score(in),
		TotalRecommendations: len(recs),
		GeneratedAt:          time.Now().UTC(),
	}
}

func sentimentRules(report *domain.SentimentReport) []domain.Recommendation {
	if report == nil || report.TotalAnalyzed == 0 {
		return nil
	}
	negative := report.Distribution[domain.SentimentNegative].Percentage
	positive := report.Distribution[domain.SentimentPositive].Percentage
	neutral := report.Distribution[domain.SentimentNeutral].Percentage

	var recs []domain.Recommendation
	switch {
	case negative > negativeCriticalPct:
		recs = append(recs, domain.Recommendation{
			Category:    "reputation",
			Priority:    domain.PriorityCritical,
			Title:       "Negative sentiment is dominating the conversation",
			Description: fmt.Sprintf("%.1f%% of analyzed replies are negative. Immediate response is needed to stop the reputation slide.", negative),
			ActionableSteps: []string{
				"Triage the most-engaged negative threads and respond within 24 hours",
				"Publish a public acknowledgement addressing the top complaint themes",
				"Route recurring service complaints to the operations team daily",
			},
			Impact: "high",
			Effort: "high",
		})
	case negative > negativeHighPct:
		recs = append(recs, domain.Recommendation{
			Category:    "reputation",
			Priority:    domain.PriorityHigh,
			Title:       "Negative sentiment is elevated",
			Description: fmt.Sprintf("%.1f%% of analyzed replies are negative. Proactive engagement can keep this from escalating.", negative),
			ActionableSteps: []string{
				"Reply to negative mentions before they accumulate quote activity",
				"Review the negative wordcloud for recurring product issues",
			},
			Impact: "high",
			Effort: "medium",
		})
	}

	if positive < positiveLowPct {
		recs = append(recs, domain.Recommendation{
			Category:    "content_strategy",
			Priority:    domain.PriorityMedium,
			Title:       "Positive sentiment share is low",
			Description: fmt.Sprintf("Only %.1f%% of replies are positive. Content that earns praise is underrepresented.", positive),
			ActionableSteps: []string{
				"Amplify the post formats that already collect positive replies",
				"Share customer success stories and service improvements",
			},
			Impact: "medium",
			Effort: "medium",
		})
	}

	if neutral > neutralHighPct {
		recs = append(recs, domain.Recommendation{
			Category:    "engagement",
			Priority:    domain.PriorityMedium,
			Title:       "Most replies carry no clear sentiment",
			Description: fmt.Sprintf("%.1f%% of replies are neutral. The audience reads but rarely reacts.", neutral),
			ActionableSteps: []string{
				"Ask direct opinion questions to provoke a stance",
				"Run interactive formats such as polls and prompts",
				"Personalize messaging so replies have something to respond to",
			},
			Impact: "low",
			Effort: "low",
		})
	}
	return recs
}

func emotionRules(report *domain.EmotionReport) []domain.Recommendation {
	if report == nil || report.TotalAnalyzed == 0 {
		return nil
	}
	anger := report.Distribution[domain.EmotionAnger].Percentage
	fear := report.Distribution[domain.EmotionFear].Percentage
	sadness := report.Distribution[domain.EmotionSadness].Percentage
	joy := report.Distribution[domain.EmotionJoy].Percentage
	disgust := report.Distribution[domain.EmotionDisgust].Percentage

	var recs []domain.Recommendation
	if anger > angerCriticalPct {
		recs = append(recs, domain.Recommendation{
			Category:    "crisis_management",
			Priority:    domain.PriorityCritical,
			Title:       "Anger is spiking in the reply corpus",
			Description: fmt.Sprintf("%.1f%% of replies express anger. Angry threads spread fastest and need the quickest response.", anger),
			ActionableSteps: []string{
				"Escalate the angriest threads to a human responder immediately",
				"Identify the trigger event behind the spike and address it directly",
				"Pause scheduled promotional posts until the spike subsides",
			},
			Impact: "high",
			Effort: "high",
		})
	}
	if fear > fearHighPct {
		recs = append(recs, domain.Recommendation{
			Category:    "communication",
			Priority:    domain.PriorityHigh,
			Title:       "Customers are expressing worry",
			Description: fmt.Sprintf("%.1f%% of replies show fear or anxiety, usually about outages or safety.", fear),
			ActionableSteps: []string{
				"Publish a clear status update covering the concern",
				"Pin reassurance messaging with concrete timelines",
			},
			Impact: "medium",
			Effort: "low",
		})
	}
	if sadness > sadnessHighPct {
		recs = append(recs, domain.Recommendation{
			Category:    "customer_care",
			Priority:    domain.PriorityHigh,
			Title:       "Disappointment is widespread",
			Description: fmt.Sprintf("%.1f%% of replies express sadness or disappointment with the experience.", sadness),
			ActionableSteps: []string{
				"Follow up individually on unresolved complaints",
				"Audit the most-mentioned disappointment themes for product fixes",
			},
			Impact: "medium",
			Effort: "medium",
		})
	}
	if joy < joyLowPct {
		recs = append(recs, domain.Recommendation{
			Category:    "customer_experience",
			Priority:    domain.PriorityMedium,
			Title:       "Joy is rare in the reply corpus",
			Description: fmt.Sprintf("Only %.1f%% of replies express joy. Moments that delight customers are scarce.", joy),
			ActionableSteps: []string{
				"Study the joy wordcloud for what already works and repeat it",
				"Celebrate customer wins and service milestones publicly",
			},
			Impact: "medium",
			Effort: "medium",
		})
	}
	if disgust > disgustCriticalPct {
		recs = append(recs, domain.Recommendation{
			Category:    "product_quality",
			Priority:    domain.PriorityCritical,
			Title:       "Strong revulsion toward the product or service",
			Description: fmt.Sprintf("%.1f%% of replies express disgust, which points at severe quality failures.", disgust),
			ActionableSteps: []string{
				"Investigate the disgust-tagged threads for the failing component",
				"Run a quality audit on the products or services named most",
				"Prepare a public statement if the failure is widespread",
			},
			Impact: "high",
			Effort: "high",
		})
	}
	return recs
}

func engagementRules(report *domain.StatsWithDelta) []domain.Recommendation {
	if report == nil || report.BasicStats.TotalPosts == 0 {
		return nil
	}
	avg := report.BasicStats.AvgEngagement
	if avg >= lowEngagementAvg {
		return nil
	}
	return []domain.Recommendation{{
		Category:    "engagement",
		Priority:    domain.PriorityMedium,
		Title:       "Average engagement per post is low",
		Description: fmt.Sprintf("Posts average %.1f interactions. Reach is limited at this level.", avg),
		ActionableSteps: []string{
			"Ask a direct question in each post to invite replies",
			"Test media-rich formats against plain text posts",
		},
		Impact: "medium",
		Effort: "low",
	}}
}

func timingRules(report *domain.ActivityReport) []domain.Recommendation {
	if report == nil || len(report.PeakRanges) == 0 {
		return nil
	}
	top := report.PeakRanges[0]
	return []domain.Recommendation{{
		Category:    "timing",
		Priority:    domain.PriorityLow,
		Title:       "Schedule posts inside the peak activity window",
		Description: fmt.Sprintf("Reply activity peaks at %s (avg %.1f replies per hour). Posts published there reach the most active audience.", top.Range, top.AvgActivity),
		ActionableSteps: []string{
			fmt.Sprintf("Schedule important announcements within %s", top.Range),
			"Staff community responses during the peak window",
		},
		Impact: "low",
		Effort: "low",
	}}
}

func topicRules(report *domain.TopicReport) []domain.Recommendation {
	if report == nil || len(report.Engagement) == 0 {
		return nil
	}
	var total, topCount int
	var topLabel string
	for _, agg := range report.Engagement {
		total += agg.TweetCount
		if agg.TweetCount > topCount {
			topCount = agg.TweetCount
			topLabel = agg.TopicLabel
		}
	}
	if total == 0 {
		return nil
	}
	share := float64(topCount) / float64(total) * 100
	if share <= topicConcentrationPct {
		return nil
	}
	return []domain.Recommendation{{
		Category:    "content_strategy",
		Priority:    domain.PriorityMedium,
		Title:       "Content is concentrated in one topic",
		Description: fmt.Sprintf("%.1f%% of posts fall under \"%s\". Over-concentration narrows the reachable audience.", share, topLabel),
		ActionableSteps: []string{
			"Plan a content calendar that rotates across discovered topics",
			"Repurpose the strongest topic's formats for underused topics",
		},
		Impact: "medium",
		Effort: "medium",
	}}
}

// Score computes the 0-100 performance score from the sentiment, emotion
// and engagement inputs. Sub-scores clamp to [0, 100]; the overall score is
// the weighted sum rounded to one decimal.
func Score(in Inputs) domain.PerformanceScore {
	var score domain.PerformanceScore

	if in.Sentiment != nil && in.Sentiment.TotalAnalyzed > 0 {
		positive := in.Sentiment.Distribution[domain.SentimentPositive].Percentage
		negative := in.Sentiment.Distribution[domain.SentimentNegative].Percentage
		score.SentimentScore = clamp(positive-negative+50, 0, 100)
	}

	if in.Emotion != nil && in.Emotion.TotalAnalyzed > 0 {
		joy := in.Emotion.Distribution[domain.EmotionJoy].Percentage
		anger := in.Emotion.Distribution[domain.EmotionAnger].Percentage
		sadness := in.Emotion.Distribution[domain.EmotionSadness].Percentage
		disgust := in.Emotion.Distribution[domain.EmotionDisgust].Percentage
		score.EmotionScore = clamp(joy-(anger+sadness+disgust)+50, 0, 100)
	}

	if in.Stats != nil && in.Stats.BasicStats.TotalPosts > 0 {
		score.EngagementScore = engagementScore(in.Stats.BasicStats.AvgEngagement)
	}

	overall := score.SentimentScore*weightSentiment +
		score.EmotionScore*weightEmotion +
		score.EngagementScore*weightEngagement
	score.OverallScore = math.Round(overall*10) / 10

	switch {
	case score.OverallScore >= ratingExcellent:
		score.Rating = "Excellent"
	case score.OverallScore >= ratingGood:
		score.Rating = "Good"
	case score.OverallScore >= ratingFair:
		score.Rating = "Fair"
	default:
		score.Rating = "Poor"
	}
	return score
}

// engagementScore is a piecewise function of average engagement per post.
func engagementScore(avg float64) float64 {
	switch {
	case avg >= 200:
		return 100
	case avg >= 100:
		return 75
	case avg >= 50:
		return 50
	default:
		return avg / 50 * 50
	}
}

// insights surfaces one best-of finding per engine.
func insights(in Inputs) []domain.Insight {
	var out []domain.Insight

	if in.Sentiment != nil && in.Sentiment.TotalAnalyzed > 0 {
		label, pct := dominant(in.Sentiment.Distribution)
		out = append(out, domain.Insight{
			Category:    "sentiment",
			Title:       "Dominant sentiment",
			Value:       label,
			Percentage:  pct,
			Description: fmt.Sprintf("%.1f%% of analyzed replies are %s", pct, label),
		})
	}

	if in.Emotion != nil && in.Emotion.TotalAnalyzed > 0 {
		label, pct := dominant(in.Emotion.Distribution)
		out = append(out, domain.Insight{
			Category:    "emotion",
			Title:       "Dominant emotion",
			Value:       label,
			Percentage:  pct,
			Description: fmt.Sprintf("%.1f%% of analyzed replies express %s", pct, label),
		})
	}

	if in.Stats != nil && in.Stats.BasicStats.TotalPosts > 0 {
		avg := in.Stats.BasicStats.AvgEngagement
		out = append(out, domain.Insight{
			Category:    "engagement",
			Title:       "Average engagement",
			Value:       fmt.Sprintf("%.1f", avg),
			Description: fmt.Sprintf("Posts average %.1f interactions (likes + retweets + replies)", avg),
		})
	}

	if in.Topics != nil && len(in.Topics.Engagement) > 0 {
		top := in.Topics.Engagement[0]
		for _, agg := range in.Topics.Engagement[1:] {
			if agg.TotalEngagement > top.TotalEngagement {
				top = agg
			}
		}
		out = append(out, domain.Insight{
			Category:    "topics",
			Title:       "Top topic by engagement",
			Value:       top.TopicLabel,
			Description: fmt.Sprintf("\"%s\" collected %d total interactions across %d posts", top.TopicLabel, top.TotalEngagement, top.TweetCount),
		})
	}

	if in.Activity != nil && len(in.Activity.PeakRanges) > 0 {
		top := in.Activity.PeakRanges[0]
		out = append(out, domain.Insight{
			Category:    "timing",
			Title:       "Peak activity window",
			Value:       top.Range,
			Description: fmt.Sprintf("Audience activity peaks at %s with %.1f replies per hour on average", top.Range, top.AvgActivity),
		})
	}

	return out
}

// dominant picks the label with the highest percentage; ties keep the
// lexicographically smallest label so output is deterministic.
func dominant(distribution map[string]domain.CategoryStat) (string, float64) {
	labels := make([]string, 0, len(distribution))
	for label := range distribution {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best := ""
	bestPct := -1.0
	for _, label := range labels {
		if distribution[label].Percentage > bestPct {
			best = label
			bestPct = distribution[label].Percentage
		}
	}
	return best, bestPct
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
