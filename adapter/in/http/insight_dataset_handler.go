package http

import (
	"insight_server/core/domain"
	"insight_server/core/port/in"
	"insight_server/pkg/apperr"
	"insight_server/pkg/logger"
	"insight_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DatasetHandler serves dataset lifecycle operations.
type DatasetHandler struct {
	datasets in.DatasetUseCase
	log      *logger.Logger
}

// NewDatasetHandler creates the handler.
func NewDatasetHandler(datasets in.DatasetUseCase) *DatasetHandler {
	return &DatasetHandler{
		datasets: datasets,
		log:      logger.Default().WithField("handler", "dataset"),
	}
}

// Register mounts the dataset routes.
func (h *DatasetHandler) Register(router fiber.Router) {
	group := router.Group("/datasets")
	group.Post("/", h.Import)
	group.Get("/", h.List)
	group.Get("/active", h.Active)
	group.Put("/:id/select", h.Select)
	group.Delete("/:id", h.Delete)
}

// rawPost is one uploaded post row. Counts arrive as numbers or strings
// depending on the export tool, so they stay loosely typed until coerced.
type rawPost struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	PostType  string `json:"post_type"`
	Permalink string `json:"permalink"`
	Likes     any    `json:"likes"`
	Retweets  any    `json:"retweets"`
	Replies   any    `json:"replies"`
	CreatedAt string `json:"created_at"`
}

// rawReply is one uploaded reply row.
type rawReply struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Permalink string `json:"permalink"`
	Likes     any    `json:"likes"`
	Retweets  any    `json:"retweets"`
	CreatedAt string `json:"created_at"`
}

type importRequest struct {
	Name    string     `json:"name"`
	Posts   []rawPost  `json:"posts"`
	Replies []rawReply `json:"replies"`
}

// Import uploads one dataset. Rows with unparseable timestamps are skipped
// and counted; they never abort the batch.
func (h *DatasetHandler) Import(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.MalformedRecord("request body is not valid JSON", err)
	}

	imp := in.DatasetImport{Name: req.Name}
	skipped := 0

	for _, raw := range req.Posts {
		createdAt, err := domain.ParsePostTime(raw.CreatedAt)
		if err != nil {
			skipped++
			continue
		}
		imp.Posts = append(imp.Posts, domain.Post{
			ID:        raw.ID,
			Author:    raw.Author,
			Content:   raw.Content,
			PostType:  raw.PostType,
			Permalink: raw.Permalink,
			Likes:     domain.CoerceCount(raw.Likes),
			Retweets:  domain.CoerceCount(raw.Retweets),
			Replies:   domain.CoerceCount(raw.Replies),
			CreatedAt: createdAt,
		})
	}

	for _, raw := range req.Replies {
		createdAt, err := domain.ParsePostTime(raw.CreatedAt)
		if err != nil {
			skipped++
			continue
		}
		imp.Replies = append(imp.Replies, domain.Reply{
			ID:        raw.ID,
			ParentID:  raw.ParentID,
			Author:    raw.Author,
			Content:   raw.Content,
			Permalink: raw.Permalink,
			Likes:     domain.CoerceCount(raw.Likes),
			Retweets:  domain.CoerceCount(raw.Retweets),
			CreatedAt: createdAt,
		})
	}

	if skipped > 0 {
		h.log.WithField("skipped", skipped).Warn("skipped rows with unparseable timestamps")
	}

	ds, err := h.datasets.Import(c.Context(), imp)
	if err != nil {
		return err
	}
	return response.Created(c, ds)
}

// List returns every dataset, newest first.
func (h *DatasetHandler) List(c *fiber.Ctx) error {
	datasets, err := h.datasets.List(c.Context())
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, datasets, &response.Meta{Total: len(datasets)})
}

// Active returns the currently selected dataset.
func (h *DatasetHandler) Active(c *fiber.Ctx) error {
	ds, err := h.datasets.Active(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, ds)
}

// Select makes one dataset active.
func (h *DatasetHandler) Select(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.InvalidInput("id", "must be a UUID")
	}
	if err := h.datasets.Select(c.Context(), id); err != nil {
		return err
	}
	return response.OK(c, fiber.Map{"id": id, "active": true})
}

// Delete removes one dataset and everything derived from it.
func (h *DatasetHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.InvalidInput("id", "must be a UUID")
	}
	if err := h.datasets.Delete(c.Context(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
