// Package dataset manages the dataset lifecycle: import, listing, active
// selection and deletion. A freshly imported dataset becomes the active one.
package dataset

import (
	"context"
	"time"

	"insight_server/core/domain"
	"insight_server/core/port/in"
	"insight_server/core/port/out"
	"insight_server/pkg/apperr"
	"insight_server/pkg/logger"

	"github.com/google/uuid"
)

// Service implements the dataset use case.
type Service struct {
	datasets out.DatasetRepository
	posts    out.PostRepository
	replies  out.ReplyRepository
	cache    out.ReportCache
	log      *logger.Logger
}

var _ in.DatasetUseCase = (*Service)(nil)

// NewService wires the dataset service. cache may be nil.
func NewService(
	datasets out.DatasetRepository,
	posts out.PostRepository,
	replies out.ReplyRepository,
	cache out.ReportCache,
) *Service {
	return &Service{
		datasets: datasets,
		posts:    posts,
		replies:  replies,
		cache:    cache,
		log:      logger.Default().WithField("service", "dataset"),
	}
}

// Import stores one uploaded dataset and makes it active. Replies with no
// explicit parent are matched to their post through the permalink.
func (s *Service) Import(ctx context.Context, imp in.DatasetImport) (*domain.Dataset, error) {
	if imp.Name == "" {
		return nil, apperr.MissingField("name")
	}
	if len(imp.Posts) == 0 {
		return nil, apperr.InvalidInput("posts", "dataset must contain at least one post")
	}

	ds := &domain.Dataset{
		ID:         uuid.New(),
		Name:       imp.Name,
		Active:     true,
		PostCount:  len(imp.Posts),
		ReplyCount: len(imp.Replies),
		CreatedAt:  time.Now().UTC(),
	}

	// Malformed rows are skipped, never abort the batch.
	posts := make([]domain.Post, 0, len(imp.Posts))
	skipped := 0
	for _, post := range imp.Posts {
		post.DatasetID = ds.ID
		if post.ID == "" {
			post.ID = domain.ExtractPermalinkID(post.Permalink)
		}
		if post.ID == "" {
			skipped++
			continue
		}
		posts = append(posts, post)
	}
	if len(posts) == 0 {
		return nil, apperr.MalformedRecord("no post row carries a resolvable identifier", nil)
	}

	replies := make([]domain.Reply, 0, len(imp.Replies))
	for _, reply := range imp.Replies {
		reply.DatasetID = ds.ID
		if reply.ID == "" {
			reply.ID = domain.ExtractPermalinkID(reply.Permalink)
		}
		if reply.ParentID == "" {
			reply.ParentID = domain.ExtractPermalinkID(reply.Permalink)
		}
		replies = append(replies, reply)
	}
	ds.PostCount = len(posts)
	ds.ReplyCount = len(replies)
	if skipped > 0 {
		s.log.WithField("skipped", skipped).Warn("skipped post rows without identifiers")
	}

	if err := s.datasets.Create(ctx, ds); err != nil {
		return nil, apperr.DatabaseError("create dataset", err)
	}
	if err := s.posts.BulkInsert(ctx, posts); err != nil {
		return nil, apperr.DatabaseError("insert posts", err)
	}
	if len(replies) > 0 {
		if err := s.replies.BulkInsert(ctx, replies); err != nil {
			return nil, apperr.DatabaseError("insert replies", err)
		}
	}
	if err := s.datasets.SetActive(ctx, ds.ID); err != nil {
		return nil, apperr.DatabaseError("set active dataset", err)
	}

	s.log.WithField("dataset_id", ds.ID.String()).
		WithField("posts", len(posts)).
		WithField("replies", len(replies)).
		Info("dataset imported")
	return ds, nil
}

// List returns every known dataset, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Dataset, error) {
	datasets, err := s.datasets.List(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("list datasets", err)
	}
	return datasets, nil
}

// Active returns the currently selected dataset.
func (s *Service) Active(ctx context.Context) (*domain.Dataset, error) {
	ds, err := s.datasets.GetActive(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("get active dataset", err)
	}
	if ds == nil {
		return nil, apperr.NotFound("active dataset")
	}
	return ds, nil
}

// Select makes the given dataset active.
func (s *Service) Select(ctx context.Context, id uuid.UUID) error {
	ds, err := s.datasets.GetByID(ctx, id)
	if err != nil {
		return apperr.DatabaseError("get dataset", err)
	}
	if ds == nil {
		return apperr.NotFound("dataset")
	}
	if err := s.datasets.SetActive(ctx, id); err != nil {
		return apperr.DatabaseError("set active dataset", err)
	}
	return nil
}

// Delete removes a dataset with its posts, replies and cached reports.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ds, err := s.datasets.GetByID(ctx, id)
	if err != nil {
		return apperr.DatabaseError("get dataset", err)
	}
	if ds == nil {
		return apperr.NotFound("dataset")
	}

	if err := s.posts.DeleteByDataset(ctx, id); err != nil {
		return apperr.DatabaseError("delete posts", err)
	}
	if err := s.replies.DeleteByDataset(ctx, id); err != nil {
		return apperr.DatabaseError("delete replies", err)
	}
	if err := s.datasets.Delete(ctx, id); err != nil {
		return apperr.DatabaseError("delete dataset", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDataset(ctx, id); err != nil {
			s.log.WithError(err).Warn("report cache invalidation failed")
		}
	}

	s.log.WithField("dataset_id", id.String()).Info("dataset deleted")
	return nil
}
