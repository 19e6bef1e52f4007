// Package out defines the outbound ports implemented by adapters.
package out

import (
	"context"
	"time"

	"insight_server/core/domain"
	"insight_server/pkg/mlkit"

	"github.com/google/uuid"
)

// DatasetRepository manages the dataset registry.
type DatasetRepository interface {
	Create(ctx context.Context, dataset *domain.Dataset) error
	List(ctx context.Context) ([]domain.Dataset, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)
	GetActive(ctx context.Context) (*domain.Dataset, error)
	SetActive(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostRepository stores and serves posts per dataset.
type PostRepository interface {
	BulkInsert(ctx context.Context, posts []domain.Post) error
	ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]domain.Post, error)
	GetByID(ctx context.Context, datasetID uuid.UUID, postID string) (*domain.Post, error)
	DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error
}

// ReplyRepository stores and serves replies per dataset.
type ReplyRepository interface {
	BulkInsert(ctx context.Context, replies []domain.Reply) error
	ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]domain.Reply, error)
	ListByParent(ctx context.Context, datasetID uuid.UUID, parentID string) ([]domain.Reply, error)
	DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error
}

// ArtifactStore loads and persists model artifacts. Loaders return
// (nil, nil) when the artifact does not exist; absence is not an error.
type ArtifactStore interface {
	LoadVectorizer(ctx context.Context) (*mlkit.TfidfVectorizer, error)
	SaveVectorizer(ctx context.Context, vectorizer *mlkit.TfidfVectorizer) error
	LoadClassifier(ctx context.Context) (*mlkit.LinearModel, error)
}

// ReportCache is the process-wide report cache.
type ReportCache interface {
	GetReport(ctx context.Context, key string, dest any) (bool, error)
	SetReport(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateDataset(ctx context.Context, datasetID uuid.UUID) error
}

// ReportArchive keeps generated reports for history.
type ReportArchive interface {
	Save(ctx context.Context, report *domain.ArchivedReport) error
	ListByDataset(ctx context.Context, datasetID uuid.UUID, limit int) ([]domain.ArchivedReport, error)
}

// TopicLabeler produces human labels for discovered topics. Implementations
// may call external services; failures must degrade to default labels.
type TopicLabeler interface {
	LabelTopics(ctx context.Context, topics []domain.Topic) ([]string, error)
}
