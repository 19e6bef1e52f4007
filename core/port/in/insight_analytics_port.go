// Package in defines the inbound use case ports served by HTTP handlers.
package in

import (
	"context"

	"insight_server/core/domain"

	"github.com/google/uuid"
)

// AnalyticsUseCase exposes every analytics operation over the active dataset.
type AnalyticsUseCase interface {
	BasicStats(ctx context.Context, datasetID uuid.UUID) (*domain.StatsWithDelta, error)
	EngagementByType(ctx context.Context, datasetID uuid.UUID) ([]domain.TypeEngagement, error)
	EngagementByDay(ctx context.Context, datasetID uuid.UUID) ([]domain.DayEngagement, error)
	TopHashtags(ctx context.Context, datasetID uuid.UUID, limit int) ([]domain.HashtagCount, error)
	Sentiment(ctx context.Context, datasetID uuid.UUID) (*domain.SentimentReport, error)
	Emotion(ctx context.Context, datasetID uuid.UUID) (*domain.EmotionReport, error)
	// Topics runs the topic model; k <= 0 triggers the expensive k search.
	Topics(ctx context.Context, datasetID uuid.UUID, k int) (*domain.TopicReport, error)
	Activity(ctx context.Context, datasetID uuid.UUID) (*domain.ActivityReport, error)
	Recommendations(ctx context.Context, datasetID uuid.UUID) (*domain.RecommendationReport, error)
	Overview(ctx context.Context, datasetID uuid.UUID) (*domain.Overview, error)
	PostDetail(ctx context.Context, datasetID uuid.UUID, postID string) (*domain.PostDetail, error)
}

// DatasetImport is the upload payload for one dataset.
type DatasetImport struct {
	Name    string
	Posts   []domain.Post
	Replies []domain.Reply
}

// DatasetUseCase manages dataset lifecycle.
type DatasetUseCase interface {
	Import(ctx context.Context, imp DatasetImport) (*domain.Dataset, error)
	List(ctx context.Context) ([]domain.Dataset, error)
	Active(ctx context.Context) (*domain.Dataset, error)
	Select(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
