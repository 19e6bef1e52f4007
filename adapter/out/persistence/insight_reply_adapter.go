package persistence

import (
	"context"
	"fmt"
	"time"

	"insight_server/core/domain"
	"insight_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ReplyAdapter implements out.ReplyRepository using PostgreSQL.
type ReplyAdapter struct {
	db *sqlx.DB
}

var _ out.ReplyRepository = (*ReplyAdapter)(nil)

// NewReplyAdapter creates a new ReplyAdapter.
func NewReplyAdapter(db *sqlx.DB) *ReplyAdapter {
	return &ReplyAdapter{db: db}
}

// replyRow represents the database row for replies.
type replyRow struct {
	ID        string    `db:"id"`
	DatasetID uuid.UUID `db:"dataset_id"`
	ParentID  string    `db:"parent_id"`
	Author    string    `db:"author"`
	Content   string    `db:"content"`
	Permalink string    `db:"permalink"`
	Likes     int       `db:"likes"`
	Retweets  int       `db:"retweets"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *replyRow) toEntity() *domain.Reply {
	return &domain.Reply{
		ID:        r.ID,
		DatasetID: r.DatasetID,
		ParentID:  r.ParentID,
		Author:    r.Author,
		Content:   r.Content,
		Permalink: r.Permalink,
		Likes:     r.Likes,
		Retweets:  r.Retweets,
		CreatedAt: r.CreatedAt,
	}
}

func toReplyRow(reply domain.Reply) replyRow {
	return replyRow{
		ID:        reply.ID,
		DatasetID: reply.DatasetID,
		ParentID:  reply.ParentID,
		Author:    reply.Author,
		Content:   reply.Content,
		Permalink: reply.Permalink,
		Likes:     reply.Likes,
		Retweets:  reply.Retweets,
		CreatedAt: reply.CreatedAt,
	}
}

// BulkInsert inserts replies in chunks, skipping duplicates.
func (a *ReplyAdapter) BulkInsert(ctx context.Context, replies []domain.Reply) error {
	query := `
		INSERT INTO replies (id, dataset_id, parent_id, author, content, permalink, likes, retweets, created_at)
		VALUES (:id, :dataset_id, :parent_id, :author, :content, :permalink, :likes, :retweets, :created_at)
		ON CONFLICT (dataset_id, id) DO NOTHING`

	for start := 0; start < len(replies); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(replies) {
			end = len(replies)
		}
		rows := make([]replyRow, 0, end-start)
		for _, reply := range replies[start:end] {
			rows = append(rows, toReplyRow(reply))
		}
		if _, err := a.db.NamedExecContext(ctx, query, rows); err != nil {
			return fmt.Errorf("failed to insert replies: %w", err)
		}
	}
	return nil
}

// ListByDataset retrieves every reply in a dataset, oldest first.
func (a *ReplyAdapter) ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]domain.Reply, error) {
	var rows []replyRow
	query := `SELECT * FROM replies WHERE dataset_id = $1 ORDER BY created_at ASC`

	if err := a.db.SelectContext(ctx, &rows, query, datasetID); err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	replies := make([]domain.Reply, len(rows))
	for i, row := range rows {
		replies[i] = *row.toEntity()
	}
	return replies, nil
}

// ListByParent retrieves the replies matched to one post, oldest first.
func (a *ReplyAdapter) ListByParent(ctx context.Context, datasetID uuid.UUID, parentID string) ([]domain.Reply, error) {
	var rows []replyRow
	query := `SELECT * FROM replies WHERE dataset_id = $1 AND parent_id = $2 ORDER BY created_at ASC`

	if err := a.db.SelectContext(ctx, &rows, query, datasetID, parentID); err != nil {
		return nil, fmt.Errorf("failed to list replies by parent: %w", err)
	}

	replies := make([]domain.Reply, len(rows))
	for i, row := range rows {
		replies[i] = *row.toEntity()
	}
	return replies, nil
}

// DeleteByDataset removes every reply in a dataset.
func (a *ReplyAdapter) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM replies WHERE dataset_id = $1`, datasetID); err != nil {
		return fmt.Errorf("failed to delete replies: %w", err)
	}
	return nil
}
