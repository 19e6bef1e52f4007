package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"insight_server/core/domain"
	"insight_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Batch size for bulk inserts, keeps well under the placeholder limit.
const insertChunkSize = 1000

// PostAdapter implements out.PostRepository using PostgreSQL.
type PostAdapter struct {
	db *sqlx.DB
}

var _ out.PostRepository = (*PostAdapter)(nil)

// NewPostAdapter creates a new PostAdapter.
func NewPostAdapter(db *sqlx.DB) *PostAdapter {
	return &PostAdapter{db: db}
}

// postRow represents the database row for posts.
type postRow struct {
	ID        string    `db:"id"`
	DatasetID uuid.UUID `db:"dataset_id"`
	Author    string    `db:"author"`
	Content   string    `db:"content"`
	PostType  string    `db:"post_type"`
	Permalink string    `db:"permalink"`
	Likes     int       `db:"likes"`
	Retweets  int       `db:"retweets"`
	Replies   int       `db:"replies"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *postRow) toEntity() *domain.Post {
	return &domain.Post{
		ID:        r.ID,
		DatasetID: r.DatasetID,
		Author:    r.Author,
		Content:   r.Content,
		PostType:  r.PostType,
		Permalink: r.Permalink,
		Likes:     r.Likes,
		Retweets:  r.Retweets,
		Replies:   r.Replies,
		CreatedAt: r.CreatedAt,
	}
}

func toPostRow(p domain.Post) postRow {
	return postRow{
		ID:        p.ID,
		DatasetID: p.DatasetID,
		Author:    p.Author,
		Content:   p.Content,
		PostType:  p.PostType,
		Permalink: p.Permalink,
		Likes:     p.Likes,
		Retweets:  p.Retweets,
		Replies:   p.Replies,
		CreatedAt: p.CreatedAt,
	}
}

// BulkInsert inserts posts in chunks. Duplicate IDs within a dataset upsert
// the engagement counters.
func (a *PostAdapter) BulkInsert(ctx context.Context, posts []domain.Post) error {
	query := `
		INSERT INTO posts (id, dataset_id, author, content, post_type, permalink, likes, retweets, replies, created_at)
		VALUES (:id, :dataset_id, :author, :content, :post_type, :permalink, :likes, :retweets, :replies, :created_at)
		ON CONFLICT (dataset_id, id) DO UPDATE
		SET likes = EXCLUDED.likes, retweets = EXCLUDED.retweets, replies = EXCLUDED.replies`

	for start := 0; start < len(posts); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(posts) {
			end = len(posts)
		}
		rows := make([]postRow, 0, end-start)
		for _, post := range posts[start:end] {
			rows = append(rows, toPostRow(post))
		}
		if _, err := a.db.NamedExecContext(ctx, query, rows); err != nil {
			return fmt.Errorf("failed to insert posts: %w", err)
		}
	}
	return nil
}

// ListByDataset retrieves every post in a dataset, oldest first.
func (a *PostAdapter) ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]domain.Post, error) {
	var rows []postRow
	query := `SELECT * FROM posts WHERE dataset_id = $1 ORDER BY created_at ASC`

	if err := a.db.SelectContext(ctx, &rows, query, datasetID); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]domain.Post, len(rows))
	for i, row := range rows {
		posts[i] = *row.toEntity()
	}
	return posts, nil
}

// GetByID retrieves a single post. Returns (nil, nil) when absent.
func (a *PostAdapter) GetByID(ctx context.Context, datasetID uuid.UUID, postID string) (*domain.Post, error) {
	var row postRow
	query := `SELECT * FROM posts WHERE dataset_id = $1 AND id = $2`

	if err := a.db.GetContext(ctx, &row, query, datasetID, postID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return row.toEntity(), nil
}

// DeleteByDataset removes every post in a dataset.
func (a *PostAdapter) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM posts WHERE dataset_id = $1`, datasetID); err != nil {
		return fmt.Errorf("failed to delete posts: %w", err)
	}
	return nil
}
