package mongodb

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"time"

	"insight_server/core/domain"
	"insight_server/core/port/out"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionArchive = "report_archive"

	// Payloads above this size are gzip-compressed at rest.
	archiveCompressionThreshold = 512
)

// ArchiveAdapter implements out.ReportArchive using MongoDB. Archived
// reports expire through a TTL index on expires_at.
type ArchiveAdapter struct {
	collection *mongo.Collection
	ttl        time.Duration
}

var _ out.ReportArchive = (*ArchiveAdapter)(nil)

// NewArchiveAdapter creates a new MongoDB archive adapter.
func NewArchiveAdapter(db *mongo.Database, ttl time.Duration) *ArchiveAdapter {
	return &ArchiveAdapter{
		collection: db.Collection(collectionArchive),
		ttl:        ttl,
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *ArchiveAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "dataset_id", Value: 1},
				{Key: "kind", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// archiveDocument represents the MongoDB document structure.
type archiveDocument struct {
	ID        string `bson:"id"`
	DatasetID string `bson:"dataset_id"`
	Kind      string `bson:"kind"`

	// Payload (potentially compressed JSON)
	Payload      []byte `bson:"payload"`
	IsCompressed bool   `bson:"is_compressed"`

	OriginalSize   int64 `bson:"original_size"`
	CompressedSize int64 `bson:"compressed_size"`

	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Save stores one archived report.
func (a *ArchiveAdapter) Save(ctx context.Context, report *domain.ArchivedReport) error {
	doc, err := a.toDocument(report)
	if err != nil {
		return fmt.Errorf("failed to convert report to document: %w", err)
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"id": doc.ID}

	if _, err := a.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save archived report: %w", err)
	}
	return nil
}

// ListByDataset retrieves archived reports for a dataset, newest first.
func (a *ArchiveAdapter) ListByDataset(ctx context.Context, datasetID uuid.UUID, limit int) ([]domain.ArchivedReport, error) {
	filter := bson.M{"dataset_id": datasetID.String()}
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}

	cursor, err := a.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []domain.ArchivedReport
	for cursor.Next(ctx) {
		var doc archiveDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode archived report: %w", err)
		}
		report, err := a.toEntity(&doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert archived report: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (a *ArchiveAdapter) toDocument(report *domain.ArchivedReport) (*archiveDocument, error) {
	payload := report.Payload
	originalSize := int64(len(payload))
	compressedSize := originalSize
	isCompressed := false

	if originalSize > archiveCompressionThreshold {
		compressed, err := compressArchive(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to compress payload: %w", err)
		}
		payload = compressed
		isCompressed = true
		compressedSize = int64(len(compressed))
	}

	return &archiveDocument{
		ID:             report.ID.String(),
		DatasetID:      report.DatasetID.String(),
		Kind:           report.Kind,
		Payload:        payload,
		IsCompressed:   isCompressed,
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		CreatedAt:      report.CreatedAt,
		ExpiresAt:      report.CreatedAt.Add(a.ttl),
	}, nil
}

func (a *ArchiveAdapter) toEntity(doc *archiveDocument) (*domain.ArchivedReport, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report ID: %w", err)
	}
	datasetID, err := uuid.Parse(doc.DatasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset ID: %w", err)
	}

	payload := doc.Payload
	if doc.IsCompressed {
		payload, err = decompressArchive(doc.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress payload: %w", err)
		}
	}

	return &domain.ArchivedReport{
		ID:        id,
		DatasetID: datasetID,
		Kind:      doc.Kind,
		Payload:   payload,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func compressArchive(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompressArchive(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
