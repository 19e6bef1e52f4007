package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"insight_server/core/domain"
	"insight_server/core/service/activity"
	"insight_server/core/service/emotion"
	"insight_server/core/service/sentiment"
	"insight_server/core/service/topics"
	"insight_server/pkg/apperr"
	"insight_server/pkg/mlkit"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type fakePostRepo struct {
	posts []domain.Post
}

func (f *fakePostRepo) BulkInsert(ctx context.Context, posts []domain.Post) error { return nil }

func (f *fakePostRepo) ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]domain.Post, error) {
	return f.posts, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, datasetID uuid.UUID, postID string) (*domain.Post, error) {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			return &f.posts[i], nil
		}
	}
	return nil, nil
}

func (f *fakePostRepo) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error { return nil }

type fakeReplyRepo struct {
	replies []domain.Reply
}

func (f *fakeReplyRepo) BulkInsert(ctx context.Context, replies []domain.Reply) error { return nil }

func (f *fakeReplyRepo) ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]domain.Reply, error) {
	return f.replies, nil
}

func (f *fakeReplyRepo) ListByParent(ctx context.Context, datasetID uuid.UUID, parentID string) ([]domain.Reply, error) {
	var out []domain.Reply
	for _, reply := range f.replies {
		if reply.ParentID == parentID {
			out = append(out, reply)
		}
	}
	return out, nil
}

func (f *fakeReplyRepo) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error { return nil }

// fakeReportCache stores marshaled reports in memory, mirroring the JSON
// round-trip of the real cache.
type fakeReportCache struct {
	entries map[string][]byte
	hits    int
	sets    int
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{entries: make(map[string][]byte)}
}

func (f *fakeReportCache) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeReportCache) SetReport(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

func (f *fakeReportCache) InvalidateDataset(ctx context.Context, datasetID uuid.UUID) error {
	prefix := fmt.Sprintf("report:%s:", datasetID)
	for key := range f.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(f.entries, key)
		}
	}
	return nil
}

type fakeArchive struct {
	saved []*domain.ArchivedReport
}

func (f *fakeArchive) Save(ctx context.Context, report *domain.ArchivedReport) error {
	f.saved = append(f.saved, report)
	return nil
}

func (f *fakeArchive) ListByDataset(ctx context.Context, datasetID uuid.UUID, limit int) ([]domain.ArchivedReport, error) {
	return nil, nil
}

type nilArtifacts struct{}

func (nilArtifacts) LoadVectorizer(ctx context.Context) (*mlkit.TfidfVectorizer, error) {
	return nil, nil
}

func (nilArtifacts) SaveVectorizer(ctx context.Context, v *mlkit.TfidfVectorizer) error { return nil }

func (nilArtifacts) LoadClassifier(ctx context.Context) (*mlkit.LinearModel, error) { return nil, nil }

func newTestService(posts *fakePostRepo, replies *fakeReplyRepo, cache *fakeReportCache, archive *fakeArchive) *Service {
	sentimentEngine := sentiment.NewEngine(nilArtifacts{})
	sentimentEngine.LoadArtifacts(context.Background())

	svc := NewService(
		posts,
		replies,
		sentimentEngine,
		emotion.NewEngine(),
		topics.NewEngine(topics.Config{MinK: 2, MaxK: 3, VocabSize: 100}, nil),
		activity.NewEngine(activity.DefaultConfig()),
		nil,
		nil,
		time.Hour,
	)
	// Assigned after construction so nil stays a nil interface.
	if cache != nil {
		svc.cache = cache
	}
	if archive != nil {
		svc.archive = archive
	}
	return svc
}

func testCorpus() (*fakePostRepo, *fakeReplyRepo) {
	posts := &fakePostRepo{posts: []domain.Post{
		{ID: "1", Content: "promo #internet murah", PostType: domain.PostTypeTweet, Likes: 10, CreatedAt: time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Content: "jaringan baru aktif", PostType: domain.PostTypeTweet, Likes: 4, CreatedAt: time.Date(2025, 11, 11, 9, 0, 0, 0, time.UTC)},
	}}
	replies := &fakeReplyRepo{replies: []domain.Reply{
		{ID: "10", ParentID: "1", Content: "pelayanan bagus", Likes: 1, CreatedAt: time.Date(2025, 11, 10, 9, 30, 0, 0, time.UTC)},
		{ID: "11", ParentID: "1", Content: "sinyal jelek banget", CreatedAt: time.Date(2025, 11, 10, 10, 30, 0, 0, time.UTC)},
		{ID: "12", ParentID: "2", Content: "mantap sekali", Likes: 2, CreatedAt: time.Date(2025, 11, 10, 10, 45, 0, 0, time.UTC)},
	}}
	return posts, replies
}

func TestBasicStatsRequiresPosts(t *testing.T) {
	svc := newTestService(&fakePostRepo{}, &fakeReplyRepo{}, nil, nil)

	_, err := svc.BasicStats(context.Background(), uuid.New())
	if !apperr.IsCode(err, apperr.CodeInsufficientData) {
		t.Errorf("BasicStats on empty dataset = %v, want INSUFFICIENT_DATA", err)
	}
}

func TestSentimentCachesReport(t *testing.T) {
	posts, replies := testCorpus()
	cache := newFakeReportCache()
	archive := &fakeArchive{}
	svc := newTestService(posts, replies, cache, archive)

	datasetID := uuid.New()
	first, err := svc.Sentiment(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("Sentiment: %v", err)
	}
	if first.TotalAnalyzed != 3 {
		t.Errorf("TotalAnalyzed = %d, want 3", first.TotalAnalyzed)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	key := fmt.Sprintf("report:%s:%s", datasetID, domain.ReportKindSentiment)
	if _, ok := cache.entries[key]; !ok {
		t.Errorf("cache key %q not written", key)
	}

	second, err := svc.Sentiment(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("Sentiment (cached): %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
	if second.TotalAnalyzed != first.TotalAnalyzed {
		t.Errorf("cached report differs: %d vs %d", second.TotalAnalyzed, first.TotalAnalyzed)
	}

	if len(archive.saved) != 1 {
		t.Fatalf("archived %d reports, want 1", len(archive.saved))
	}
	if archive.saved[0].Kind != domain.ReportKindSentiment {
		t.Errorf("archived kind = %q, want %q", archive.saved[0].Kind, domain.ReportKindSentiment)
	}
	if archive.saved[0].DatasetID != datasetID {
		t.Errorf("archived dataset = %s, want %s", archive.saved[0].DatasetID, datasetID)
	}
}

func TestSentimentRequiresReplies(t *testing.T) {
	posts, _ := testCorpus()
	svc := newTestService(posts, &fakeReplyRepo{}, nil, nil)

	_, err := svc.Sentiment(context.Background(), uuid.New())
	if !apperr.IsCode(err, apperr.CodeInsufficientData) {
		t.Errorf("Sentiment with no replies = %v, want INSUFFICIENT_DATA", err)
	}
}

func TestTopicsExplicitKSkipsCache(t *testing.T) {
	posts := &fakePostRepo{posts: []domain.Post{
		{ID: "1", Content: "internet cepat jaringan stabil"},
		{ID: "2", Content: "harga paket kuota mahal"},
		{ID: "3", Content: "internet lambat sinyal hilang"},
		{ID: "4", Content: "harga murah promo paket"},
	}}
	cache := newFakeReportCache()
	svc := newTestService(posts, &fakeReplyRepo{}, cache, nil)

	if _, err := svc.Topics(context.Background(), uuid.New(), 2); err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if cache.sets != 0 {
		t.Errorf("explicit k wrote %d cache entries, want 0", cache.sets)
	}
}

func TestTopicsSearchIsCached(t *testing.T) {
	posts := &fakePostRepo{posts: []domain.Post{
		{ID: "1", Content: "internet cepat jaringan stabil"},
		{ID: "2", Content: "harga paket kuota mahal"},
		{ID: "3", Content: "internet lambat sinyal hilang"},
		{ID: "4", Content: "harga murah promo paket"},
	}}
	cache := newFakeReportCache()
	svc := newTestService(posts, &fakeReplyRepo{}, cache, nil)

	datasetID := uuid.New()
	if _, err := svc.Topics(context.Background(), datasetID, 0); err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	if _, err := svc.Topics(context.Background(), datasetID, 0); err != nil {
		t.Fatalf("Topics (cached): %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
}

func TestActivityPropagatesInsufficientData(t *testing.T) {
	// All replies in the same hour cannot be clustered.
	replies := &fakeReplyRepo{replies: []domain.Reply{
		{ID: "1", Content: "a", CreatedAt: time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Content: "b", CreatedAt: time.Date(2025, 11, 10, 9, 30, 0, 0, time.UTC)},
	}}
	svc := newTestService(&fakePostRepo{}, replies, nil, nil)

	_, err := svc.Activity(context.Background(), uuid.New())
	if !apperr.IsCode(err, apperr.CodeInsufficientData) {
		t.Errorf("Activity = %v, want INSUFFICIENT_DATA", err)
	}
}

func TestRecommendationsToleratesPartialFailures(t *testing.T) {
	// No posts at all: stats and topics fail, but the reply-based engines
	// still feed the synthesizer.
	_, replies := testCorpus()
	svc := newTestService(&fakePostRepo{}, replies, nil, nil)

	report, err := svc.Recommendations(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if report.Performance.SentimentScore == 0 {
		t.Error("sentiment sub-score is zero, want the reply corpus scored")
	}
	if report.Performance.EngagementScore != 0 {
		t.Error("engagement sub-score set despite missing posts")
	}
}

func TestRecommendationsAllEnginesFailing(t *testing.T) {
	svc := newTestService(&fakePostRepo{}, &fakeReplyRepo{}, nil, nil)

	_, err := svc.Recommendations(context.Background(), uuid.New())
	if !apperr.IsCode(err, apperr.CodeInsufficientData) {
		t.Errorf("Recommendations = %v, want INSUFFICIENT_DATA", err)
	}
}

func TestOverviewOmitsFailedSections(t *testing.T) {
	posts, _ := testCorpus()
	svc := newTestService(posts, &fakeReplyRepo{}, nil, nil)

	overview, err := svc.Overview(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.BasicStats.BasicStats.TotalPosts != 2 {
		t.Errorf("TotalPosts = %d, want 2", overview.BasicStats.BasicStats.TotalPosts)
	}
	if len(overview.EngagementByDay) != 7 {
		t.Errorf("EngagementByDay = %d entries, want 7", len(overview.EngagementByDay))
	}
	// No replies: sentiment, emotion and activity sections are omitted.
	if overview.Sentiment != nil || overview.Emotion != nil || overview.Activity != nil {
		t.Error("reply-based sections present despite empty reply corpus")
	}
	if overview.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestOverviewFullCorpus(t *testing.T) {
	posts, replies := testCorpus()
	svc := newTestService(posts, replies, nil, nil)

	overview, err := svc.Overview(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.Sentiment == nil {
		t.Error("Sentiment section missing")
	}
	if overview.Emotion == nil {
		t.Error("Emotion section missing")
	}
	if overview.Activity == nil {
		t.Error("Activity section missing")
	}
	if len(overview.Hashtags) == 0 {
		t.Error("Hashtags missing")
	}
}

func TestPostDetail(t *testing.T) {
	posts, replies := testCorpus()
	svc := newTestService(posts, replies, nil, nil)

	detail, err := svc.PostDetail(context.Background(), uuid.New(), "1")
	if err != nil {
		t.Fatalf("PostDetail: %v", err)
	}
	if detail.Post.ID != "1" {
		t.Errorf("post ID = %q, want 1", detail.Post.ID)
	}
	if len(detail.Replies) != 2 {
		t.Errorf("replies = %d, want 2", len(detail.Replies))
	}
	if len(detail.Hashtags) != 1 || detail.Hashtags[0] != "#internet" {
		t.Errorf("hashtags = %v, want [#internet]", detail.Hashtags)
	}
	if len(detail.ReplyWordcloud) == 0 {
		t.Error("reply wordcloud is empty")
	}
}

func TestPostDetailNotFound(t *testing.T) {
	posts, replies := testCorpus()
	svc := newTestService(posts, replies, nil, nil)

	_, err := svc.PostDetail(context.Background(), uuid.New(), "missing")
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Errorf("PostDetail = %v, want NOT_FOUND", err)
	}
}
