// Package http contains the Fiber handlers serving the analytics API.
package http

import (
	"insight_server/core/port/in"
	"insight_server/pkg/apperr"
	"insight_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AnalyticsHandler serves the analytics operations over the active dataset.
// A dataset_id query parameter overrides the active selection per request.
type AnalyticsHandler struct {
	analytics in.AnalyticsUseCase
	datasets  in.DatasetUseCase
}

// NewAnalyticsHandler creates the handler.
func NewAnalyticsHandler(analytics in.AnalyticsUseCase, datasets in.DatasetUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, datasets: datasets}
}

// Register mounts the analytics routes.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	group := router.Group("/analytics")
	group.Get("/basic-stats", h.BasicStats)
	group.Get("/engagement-by-type", h.EngagementByType)
	group.Get("/engagement-by-day", h.EngagementByDay)
	group.Get("/hashtags", h.Hashtags)
	group.Get("/sentiment", h.Sentiment)
	group.Get("/emotion", h.Emotion)
	group.Get("/topics", h.Topics)
	group.Get("/peak-activity", h.PeakActivity)
	group.Get("/recommendations", h.Recommendations)
	group.Get("/overview", h.Overview)
	group.Get("/posts/:id", h.PostDetail)
}

// datasetID resolves the dataset to analyze: an explicit dataset_id query
// parameter wins, otherwise the active dataset.
func (h *AnalyticsHandler) datasetID(c *fiber.Ctx) (uuid.UUID, error) {
	if raw := c.Query("dataset_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, apperr.InvalidInput("dataset_id", "must be a UUID")
		}
		return id, nil
	}

	active, err := h.datasets.Active(c.Context())
	if err != nil {
		return uuid.Nil, err
	}
	return active.ID, nil
}

func (h *AnalyticsHandler) BasicStats(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.BasicStats(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) EngagementByType(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.EngagementByType(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) EngagementByDay(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.EngagementByDay(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) Hashtags(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 10)
	report, err := h.analytics.TopHashtags(c.Context(), id, limit)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) Sentiment(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.Sentiment(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) Emotion(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.Emotion(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

// Topics accepts an optional k query parameter; without it the engine
// searches the configured k range.
func (h *AnalyticsHandler) Topics(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	k := c.QueryInt("k", 0)
	report, err := h.analytics.Topics(c.Context(), id, k)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) PeakActivity(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.Activity(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) Recommendations(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.Recommendations(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	report, err := h.analytics.Overview(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, report, &response.Meta{Dataset: id.String()})
}

func (h *AnalyticsHandler) PostDetail(c *fiber.Ctx) error {
	id, err := h.datasetID(c)
	if err != nil {
		return err
	}
	postID := c.Params("id")
	if postID == "" {
		return apperr.MissingField("id")
	}
	detail, err := h.analytics.PostDetail(c.Context(), id, postID)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, detail, &response.Meta{Dataset: id.String()})
}
