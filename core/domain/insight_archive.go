package domain

import (
	"time"

	"github.com/google/uuid"
)

// Archived report kinds.
const (
	ReportKindSentiment       = "sentiment"
	ReportKindEmotion         = "emotion"
	ReportKindTopics          = "topics"
	ReportKindActivity        = "activity"
	ReportKindOverview        = "overview"
	ReportKindRecommendations = "recommendations"
)

// ArchivedReport is a generated analytics report kept for history. Payload
// is the marshaled report JSON; the archive adapter compresses it at rest.
type ArchivedReport struct {
	ID        uuid.UUID `json:"id"`
	DatasetID uuid.UUID `json:"dataset_id"`
	Kind      string    `json:"kind"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
