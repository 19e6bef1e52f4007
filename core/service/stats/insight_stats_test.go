package stats

import (
	"testing"
	"time"

	"insight_server/core/domain"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestBasic(t *testing.T) {
	posts := []domain.Post{
		{Likes: 10, Retweets: 2, Replies: 3, CreatedAt: mustTime(t, "2025-11-10 09:00:00")},
		{Likes: 20, Retweets: 4, Replies: 1, CreatedAt: mustTime(t, "2025-11-11 10:00:00")},
		{Likes: 30, Retweets: 0, Replies: 2, CreatedAt: mustTime(t, "2025-11-11 18:00:00")},
	}

	got := Basic(posts)

	if got.TotalPosts != 3 {
		t.Errorf("TotalPosts = %d, want 3", got.TotalPosts)
	}
	if got.TotalLikes != 60 || got.TotalRetweets != 6 || got.TotalReplies != 6 {
		t.Errorf("totals = %d/%d/%d, want 60/6/6", got.TotalLikes, got.TotalRetweets, got.TotalReplies)
	}
	if got.TotalEngagement != 72 {
		t.Errorf("TotalEngagement = %d, want 72", got.TotalEngagement)
	}
	if got.AvgLikes != 20 || got.AvgEngagement != 24 {
		t.Errorf("averages = %v/%v, want 20/24", got.AvgLikes, got.AvgEngagement)
	}
	if got.PostingDays != 2 {
		t.Errorf("PostingDays = %d, want 2", got.PostingDays)
	}
	if got.FirstPostAt == nil || !got.FirstPostAt.Equal(posts[0].CreatedAt) {
		t.Errorf("FirstPostAt = %v, want %v", got.FirstPostAt, posts[0].CreatedAt)
	}
	if got.LastPostAt == nil || !got.LastPostAt.Equal(posts[2].CreatedAt) {
		t.Errorf("LastPostAt = %v, want %v", got.LastPostAt, posts[2].CreatedAt)
	}
}

func TestBasicEmpty(t *testing.T) {
	got := Basic(nil)
	if got.TotalPosts != 0 || got.AvgEngagement != 0 {
		t.Errorf("Basic(nil) = %+v, want zero value", got)
	}
	if got.FirstPostAt != nil || got.LastPostAt != nil {
		t.Error("timestamps should stay nil for an empty corpus")
	}
}

func TestBasicRoundsToTwoDecimals(t *testing.T) {
	posts := []domain.Post{
		{Likes: 1, CreatedAt: mustTime(t, "2025-11-10 09:00:00")},
		{Likes: 1, CreatedAt: mustTime(t, "2025-11-10 10:00:00")},
		{Likes: 2, CreatedAt: mustTime(t, "2025-11-10 11:00:00")},
	}
	got := Basic(posts)
	if got.AvgLikes != 1.33 {
		t.Errorf("AvgLikes = %v, want 1.33", got.AvgLikes)
	}
}

func TestWithDelta(t *testing.T) {
	// Out of chronological order on purpose; the latest post is the 40-like one.
	posts := []domain.Post{
		{Likes: 40, Retweets: 4, Replies: 0, CreatedAt: mustTime(t, "2025-11-12 09:00:00")},
		{Likes: 10, Retweets: 1, Replies: 0, CreatedAt: mustTime(t, "2025-11-10 09:00:00")},
		{Likes: 20, Retweets: 3, Replies: 0, CreatedAt: mustTime(t, "2025-11-11 09:00:00")},
	}

	got := WithDelta(posts)

	if got.Likes.Latest != 40 {
		t.Errorf("Likes.Latest = %v, want 40", got.Likes.Latest)
	}
	if got.Likes.PriorMean != 15 {
		t.Errorf("Likes.PriorMean = %v, want 15", got.Likes.PriorMean)
	}
	if got.Likes.DeltaPct != 166.67 {
		t.Errorf("Likes.DeltaPct = %v, want 166.67", got.Likes.DeltaPct)
	}

	if got.Retweets.Latest != 4 || got.Retweets.PriorMean != 2 || got.Retweets.DeltaPct != 100 {
		t.Errorf("Retweets delta = %+v, want latest 4 mean 2 pct 100", got.Retweets)
	}
}

func TestWithDeltaSinglePost(t *testing.T) {
	posts := []domain.Post{{Likes: 5, CreatedAt: mustTime(t, "2025-11-10 09:00:00")}}
	got := WithDelta(posts)
	if got.Likes.Latest != 0 || got.Likes.DeltaPct != 0 {
		t.Errorf("Likes delta = %+v, want zero with one post", got.Likes)
	}
}

func TestWithDeltaZeroPriorMean(t *testing.T) {
	posts := []domain.Post{
		{Likes: 0, CreatedAt: mustTime(t, "2025-11-10 09:00:00")},
		{Likes: 9, CreatedAt: mustTime(t, "2025-11-11 09:00:00")},
	}
	got := WithDelta(posts)
	if got.Likes.DeltaPct != 0 {
		t.Errorf("DeltaPct = %v, want 0 when prior mean is zero", got.Likes.DeltaPct)
	}
}

func TestByType(t *testing.T) {
	posts := []domain.Post{
		{PostType: domain.PostTypeTweet, Likes: 5, Retweets: 1, Replies: 0},
		{PostType: domain.PostTypeQuote, Likes: 50, Retweets: 10, Replies: 5},
		{PostType: domain.PostTypeTweet, Likes: 5, Retweets: 0, Replies: 1},
	}

	got := ByType(posts)
	if len(got) != 2 {
		t.Fatalf("ByType returned %d types, want 2", len(got))
	}
	// Quote has more engagement and sorts first.
	if got[0].Type != domain.PostTypeQuote || got[0].TotalEngagement != 65 {
		t.Errorf("top type = %+v, want Quote with 65", got[0])
	}
	if got[1].Type != domain.PostTypeTweet || got[1].Posts != 2 || got[1].AvgEngagement != 6 {
		t.Errorf("second type = %+v, want Tweet posts 2 avg 6", got[1])
	}
}

func TestByDayMondayFirstAndComplete(t *testing.T) {
	// 2025-11-10 is a Monday, 2025-11-16 a Sunday.
	posts := []domain.Post{
		{Likes: 7, CreatedAt: mustTime(t, "2025-11-10 09:00:00")},
		{Likes: 3, CreatedAt: mustTime(t, "2025-11-16 09:00:00")},
	}

	got := ByDay(posts)
	if len(got) != 7 {
		t.Fatalf("ByDay returned %d days, want 7", len(got))
	}
	if got[0].Day != "Monday" || got[6].Day != "Sunday" {
		t.Errorf("day order = [%s ... %s], want Monday first and Sunday last", got[0].Day, got[6].Day)
	}
	if got[0].Posts != 1 || got[0].TotalEngagement != 7 {
		t.Errorf("Monday = %+v, want 1 post engagement 7", got[0])
	}
	if got[1].Posts != 0 {
		t.Errorf("Tuesday = %+v, want zero posts but still present", got[1])
	}
	if got[6].TotalEngagement != 3 {
		t.Errorf("Sunday engagement = %d, want 3", got[6].TotalEngagement)
	}
}

func TestTopHashtags(t *testing.T) {
	posts := []domain.Post{
		{Content: "promo #Internet #Murah hari ini"},
		{Content: "kuota #internet masih ada"},
		{Content: "paket #murah #baru"},
	}

	got := TopHashtags(posts, 0)
	if len(got) != 3 {
		t.Fatalf("TopHashtags returned %d tags, want 3", len(got))
	}
	if got[0].Tag != "#internet" || got[0].Count != 2 {
		t.Errorf("top tag = %+v, want {#internet 2}", got[0])
	}
	// #murah ties at 2 but was seen after #internet.
	if got[1].Tag != "#murah" || got[1].Count != 2 {
		t.Errorf("second tag = %+v, want {#murah 2}", got[1])
	}

	limited := TopHashtags(posts, 1)
	if len(limited) != 1 {
		t.Errorf("TopHashtags with limit 1 returned %d tags", len(limited))
	}
}
