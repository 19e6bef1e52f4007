// Package analytics orchestrates the analysis engines over the stored
// dataset: it loads the post and reply collections, fans out to the
// engines, and handles report caching and archival. All engine computation
// is pure; this service owns the I/O around it.
package analytics

import (
	"context"
	"fmt"
	"time"

	"insight_server/core/domain"
	"insight_server/core/port/in"
	"insight_server/core/port/out"
	"insight_server/core/service/activity"
	"insight_server/core/service/emotion"
	"insight_server/core/service/recommend"
	"insight_server/core/service/sentiment"
	"insight_server/core/service/stats"
	"insight_server/core/service/textproc"
	"insight_server/core/service/topics"
	"insight_server/pkg/apperr"
	"insight_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const hashtagLimit = 10

// Service implements the analytics use case. Cache and archive are
// best-effort collaborators: their failures log a warning and never fail
// the analysis response.
type Service struct {
	posts     out.PostRepository
	replies   out.ReplyRepository
	sentiment *sentiment.Engine
	emotion   *emotion.Engine
	topics    *topics.Engine
	activity  *activity.Engine
	cache     out.ReportCache
	archive   out.ReportArchive
	cacheTTL  time.Duration
	log       *logger.Logger
}

var _ in.AnalyticsUseCase = (*Service)(nil)

// NewService wires the orchestrator. cache and archive may be nil.
func NewService(
	posts out.PostRepository,
	replies out.ReplyRepository,
	sentimentEngine *sentiment.Engine,
	emotionEngine *emotion.Engine,
	topicsEngine *topics.Engine,
	activityEngine *activity.Engine,
	cache out.ReportCache,
	archive out.ReportArchive,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		posts:     posts,
		replies:   replies,
		sentiment: sentimentEngine,
		emotion:   emotionEngine,
		topics:    topicsEngine,
		activity:  activityEngine,
		cache:     cache,
		archive:   archive,
		cacheTTL:  cacheTTL,
		log:       logger.Default().WithField("service", "analytics"),
	}
}

func (s *Service) loadPosts(ctx context.Context, datasetID uuid.UUID) ([]domain.Post, error) {
	posts, err := s.posts.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, apperr.DatabaseError("list posts", err)
	}
	if len(posts) == 0 {
		return nil, apperr.InsufficientData("analytics", "dataset has no posts")
	}
	return posts, nil
}

func (s *Service) loadReplies(ctx context.Context, datasetID uuid.UUID) ([]domain.Reply, error) {
	replies, err := s.replies.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, apperr.DatabaseError("list replies", err)
	}
	if len(replies) == 0 {
		return nil, apperr.InsufficientData("analytics", "dataset has no replies")
	}
	return replies, nil
}

// BasicStats returns totals, averages and last-post deltas.
func (s *Service) BasicStats(ctx context.Context, datasetID uuid.UUID) (*domain.StatsWithDelta, error) {
	posts, err := s.loadPosts(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	report := stats.WithDelta(posts)
	return &report, nil
}

// EngagementByType aggregates engagement per post type.
func (s *Service) EngagementByType(ctx context.Context, datasetID uuid.UUID) ([]domain.TypeEngagement, error) {
	posts, err := s.loadPosts(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return stats.ByType(posts), nil
}

// EngagementByDay aggregates engagement per day of week, Monday first.
func (s *Service) EngagementByDay(ctx context.Context, datasetID uuid.UUID) ([]domain.DayEngagement, error) {
	posts, err := s.loadPosts(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return stats.ByDay(posts), nil
}

// TopHashtags ranks hashtags across the post corpus.
func (s *Service) TopHashtags(ctx context.Context, datasetID uuid.UUID, limit int) ([]domain.HashtagCount, error) {
	posts, err := s.loadPosts(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = hashtagLimit
	}
	return stats.TopHashtags(posts, limit), nil
}

// Sentiment runs sentiment analysis over the reply corpus.
func (s *Service) Sentiment(ctx context.Context, datasetID uuid.UUID) (*domain.SentimentReport, error) {
	key := cacheKey(datasetID, domain.ReportKindSentiment)
	var cached domain.SentimentReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	replies, err := s.loadReplies(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	report := s.sentiment.AnalyzeCorpus(ctx, replies)

	s.cacheSet(ctx, key, report)
	s.archiveReport(ctx, datasetID, domain.ReportKindSentiment, report)
	return report, nil
}

// Emotion runs emotion analysis over the reply corpus.
func (s *Service) Emotion(ctx context.Context, datasetID uuid.UUID) (*domain.EmotionReport, error) {
	key := cacheKey(datasetID, domain.ReportKindEmotion)
	var cached domain.EmotionReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	replies, err := s.loadReplies(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	report := s.emotion.AnalyzeCorpus(replies)

	s.cacheSet(ctx, key, report)
	s.archiveReport(ctx, datasetID, domain.ReportKindEmotion, report)
	return report, nil
}

// Topics runs topic discovery over post captions. k <= 0 triggers the
// expensive k search, so only the searched result is cached.
func (s *Service) Topics(ctx context.Context, datasetID uuid.UUID, k int) (*domain.TopicReport, error) {
	key := cacheKey(datasetID, domain.ReportKindTopics)
	if k <= 0 {
		var cached domain.TopicReport
		if s.cacheGet(ctx, key, &cached) {
			return &cached, nil
		}
	}

	posts, err := s.loadPosts(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	replies, err := s.replies.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, apperr.DatabaseError("list replies", err)
	}

	report, err := s.topics.Fit(ctx, posts, replies, k)
	if err != nil {
		return nil, err
	}

	if k <= 0 {
		s.cacheSet(ctx, key, report)
	}
	s.archiveReport(ctx, datasetID, domain.ReportKindTopics, report)
	return report, nil
}

// Activity clusters reply timestamps into peak hour ranges.
func (s *Service) Activity(ctx context.Context, datasetID uuid.UUID) (*domain.ActivityReport, error) {
	key := cacheKey(datasetID, domain.ReportKindActivity)
	var cached domain.ActivityReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	replies, err := s.loadReplies(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	timestamps := make([]time.Time, len(replies))
	for i, reply := range replies {
		timestamps[i] = reply.CreatedAt
	}

	report, err := s.activity.Cluster(timestamps)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, report)
	s.archiveReport(ctx, datasetID, domain.ReportKindActivity, report)
	return report, nil
}

// Recommendations synthesizes insights and recommendations from every
// engine's output. Failing engines only drop their own rules; the
// synthesizer always runs over whatever succeeded.
func (s *Service) Recommendations(ctx context.Context, datasetID uuid.UUID) (*domain.RecommendationReport, error) {
	inputs := recommend.Inputs{}

	if statsReport, err := s.BasicStats(ctx, datasetID); err == nil {
		inputs.Stats = statsReport
	} else {
		s.log.WithError(err).Warn("basic stats unavailable for recommendations")
	}
	if sentimentReport, err := s.Sentiment(ctx, datasetID); err == nil {
		inputs.Sentiment = sentimentReport
	} else {
		s.log.WithError(err).Warn("sentiment report unavailable for recommendations")
	}
	if emotionReport, err := s.Emotion(ctx, datasetID); err == nil {
		inputs.Emotion = emotionReport
	} else {
		s.log.WithError(err).Warn("emotion report unavailable for recommendations")
	}
	if topicReport, err := s.Topics(ctx, datasetID, 0); err == nil {
		inputs.Topics = topicReport
	} else {
		s.log.WithError(err).Warn("topic report unavailable for recommendations")
	}
	if activityReport, err := s.Activity(ctx, datasetID); err == nil {
		inputs.Activity = activityReport
	} else {
		s.log.WithError(err).Warn("activity report unavailable for recommendations")
	}

	if inputs.Stats == nil && inputs.Sentiment == nil && inputs.Emotion == nil &&
		inputs.Topics == nil && inputs.Activity == nil {
		return nil, apperr.InsufficientData("recommendations", "no engine produced a report")
	}

	report := recommend.Synthesize(inputs)
	s.archiveReport(ctx, datasetID, domain.ReportKindRecommendations, report)
	return report, nil
}

// Overview assembles the combined dashboard payload. Sections that cannot
// be computed are omitted rather than failing the whole response.
func (s *Service) Overview(ctx context.Context, datasetID uuid.UUID) (*domain.Overview, error) {
	posts, err := s.loadPosts(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	overview := &domain.Overview{
		BasicStats:       stats.WithDelta(posts),
		Hashtags:         stats.TopHashtags(posts, hashtagLimit),
		EngagementByDay:  stats.ByDay(posts),
		EngagementByType: stats.ByType(posts),
		GeneratedAt:      time.Now().UTC(),
	}

	if sentimentReport, err := s.Sentiment(ctx, datasetID); err == nil {
		overview.Sentiment = sentimentReport
	}
	if emotionReport, err := s.Emotion(ctx, datasetID); err == nil {
		overview.Emotion = emotionReport
	}
	if activityReport, err := s.Activity(ctx, datasetID); err == nil {
		overview.Activity = activityReport
	}

	s.archiveReport(ctx, datasetID, domain.ReportKindOverview, overview)
	return overview, nil
}

// PostDetail returns one post with its matched replies and reply wordcloud.
func (s *Service) PostDetail(ctx context.Context, datasetID uuid.UUID, postID string) (*domain.PostDetail, error) {
	post, err := s.posts.GetByID(ctx, datasetID, postID)
	if err != nil {
		return nil, apperr.DatabaseError("get post", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post")
	}

	replies, err := s.replies.ListByParent(ctx, datasetID, postID)
	if err != nil {
		return nil, apperr.DatabaseError("list replies", err)
	}

	normalized := make([]string, len(replies))
	for i, reply := range replies {
		normalized[i] = s.sentiment.Normalize(reply.Content)
	}
	wc := textproc.WordFrequency(normalized, 2, 30)
	wordcloud := make([]domain.WordCount, len(wc))
	for i, wf := range wc {
		wordcloud[i] = domain.WordCount{Word: wf.Word, Count: wf.Count}
	}

	return &domain.PostDetail{
		Post:           *post,
		Hashtags:       post.Hashtags(),
		Replies:        replies,
		ReplyWordcloud: wordcloud,
	}, nil
}

func cacheKey(datasetID uuid.UUID, kind string) string {
	return fmt.Sprintf("report:%s:%s", datasetID, kind)
}

func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetReport(ctx, key, dest)
	if err != nil {
		s.log.WithError(err).Warn("report cache read failed")
		return false
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetReport(ctx, key, value, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("report cache write failed")
	}
}

func (s *Service) archiveReport(ctx context.Context, datasetID uuid.UUID, kind string, report any) {
	if s.archive == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.log.WithError(err).Warn("report archive marshal failed")
		return
	}
	archived := &domain.ArchivedReport{
		ID:        uuid.New(),
		DatasetID: datasetID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.archive.Save(ctx, archived); err != nil {
		s.log.WithError(err).Warn("report archive write failed")
	}
}
