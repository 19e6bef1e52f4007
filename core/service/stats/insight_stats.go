// Package stats computes the descriptive statistics shown on the dashboard:
// totals and averages, last-post deltas, engagement by post type and day of
// week, and the hashtag ranking.
package stats

import (
	"math"
	"sort"
	"time"

	"insight_server/core/domain"

	montstats "github.com/montanaflynn/stats"
)

// Monday-first ordering for the day-of-week breakdown.
var dayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Basic computes the corpus totals and averages. Post engagement here uses
// the post record's cached reply count.
func Basic(posts []domain.Post) domain.BasicStats {
	out := domain.BasicStats{TotalPosts: len(posts)}
	if len(posts) == 0 {
		return out
	}

	days := make(map[string]struct{})
	first, last := posts[0].CreatedAt, posts[0].CreatedAt
	for _, post := range posts {
		out.TotalLikes += post.Likes
		out.TotalRetweets += post.Retweets
		out.TotalReplies += post.Replies
		days[post.CreatedAt.Format("2006-01-02")] = struct{}{}
		if post.CreatedAt.Before(first) {
			first = post.CreatedAt
		}
		if post.CreatedAt.After(last) {
			last = post.CreatedAt
		}
	}
	out.TotalEngagement = out.TotalLikes + out.TotalRetweets + out.TotalReplies

	n := float64(len(posts))
	out.AvgLikes = round2(float64(out.TotalLikes) / n)
	out.AvgRetweets = round2(float64(out.TotalRetweets) / n)
	out.AvgReplies = round2(float64(out.TotalReplies) / n)
	out.AvgEngagement = round2(float64(out.TotalEngagement) / n)
	out.PostingDays = len(days)
	out.FirstPostAt = &first
	out.LastPostAt = &last
	return out
}

// WithDelta compares the most recent post against the mean of all prior
// posts. With fewer than 2 posts the deltas stay zero.
func WithDelta(posts []domain.Post) domain.StatsWithDelta {
	out := domain.StatsWithDelta{BasicStats: Basic(posts)}
	if len(posts) < 2 {
		return out
	}

	ordered := make([]domain.Post, len(posts))
	copy(ordered, posts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	latest := ordered[len(ordered)-1]
	prior := ordered[:len(ordered)-1]

	likes := make([]float64, len(prior))
	retweets := make([]float64, len(prior))
	engagement := make([]float64, len(prior))
	for i, post := range prior {
		likes[i] = float64(post.Likes)
		retweets[i] = float64(post.Retweets)
		engagement[i] = float64(post.Likes + post.Retweets + post.Replies)
	}

	out.Likes = delta(float64(latest.Likes), likes)
	out.Retweets = delta(float64(latest.Retweets), retweets)
	out.Engagement = delta(float64(latest.Likes+latest.Retweets+latest.Replies), engagement)
	return out
}

func delta(latest float64, prior []float64) domain.MetricDelta {
	mean, _ := montstats.Mean(prior)
	d := domain.MetricDelta{Latest: latest, PriorMean: round2(mean)}
	if mean != 0 {
		d.DeltaPct = round2((latest - mean) / mean * 100)
	}
	return d
}

// ByType aggregates engagement per post type, sorted by total descending.
func ByType(posts []domain.Post) []domain.TypeEngagement {
	byType := make(map[string]*domain.TypeEngagement)
	order := make([]string, 0)
	for _, post := range posts {
		agg, ok := byType[post.PostType]
		if !ok {
			agg = &domain.TypeEngagement{Type: post.PostType}
			byType[post.PostType] = agg
			order = append(order, post.PostType)
		}
		agg.Posts++
		agg.Likes += post.Likes
		agg.Retweets += post.Retweets
		agg.TotalEngagement += post.Likes + post.Retweets + post.Replies
	}

	out := make([]domain.TypeEngagement, 0, len(order))
	for _, postType := range order {
		agg := byType[postType]
		if agg.Posts > 0 {
			agg.AvgEngagement = round2(float64(agg.TotalEngagement) / float64(agg.Posts))
		}
		out = append(out, *agg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalEngagement > out[j].TotalEngagement
	})
	return out
}

// ByDay aggregates engagement per day of week, Monday first. Every day is
// present even with zero posts.
func ByDay(posts []domain.Post) []domain.DayEngagement {
	byDay := make(map[time.Weekday]*domain.DayEngagement, len(dayOrder))
	for _, day := range dayOrder {
		byDay[day] = &domain.DayEngagement{Day: day.String()}
	}

	for _, post := range posts {
		agg := byDay[post.CreatedAt.Weekday()]
		agg.Posts++
		agg.Likes += post.Likes
		agg.Retweets += post.Retweets
		agg.TotalEngagement += post.Likes + post.Retweets + post.Replies
	}

	out := make([]domain.DayEngagement, len(dayOrder))
	for i, day := range dayOrder {
		out[i] = *byDay[day]
	}
	return out
}

// TopHashtags ranks hashtags across the post corpus, ties keeping
// first-seen order.
func TopHashtags(posts []domain.Post, limit int) []domain.HashtagCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, post := range posts {
		for _, tag := range post.Hashtags() {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	ranked := make([]domain.HashtagCount, 0, len(order))
	for _, tag := range order {
		ranked = append(ranked, domain.HashtagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
