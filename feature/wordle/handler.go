package wordle

import (
	"errors"
	"time"

	"wordle-tracker/core/logger"
	"wordle-tracker/feature/wordle/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the tracker over HTTP for operators and dashboards. The
// Discord gateway remains the primary command surface; these routes mirror
// it 1:1 (leaderboard, stats, rescan).
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the wordle routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/wordle")
	group.Get("/leaderboard", h.HandleLeaderboard)
	group.Get("/stats/:user_id", h.HandleUserStats)
	group.Post("/rescan", h.HandleRescan)
}

// HandleLeaderboard returns the ranked leaderboard. An optional days query
// parameter restricts the window.
func (h *Handler) HandleLeaderboard(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	entries, err := h.service.Leaderboard(c.Context(), sinceFromDays(c.QueryInt("days", 0)))
	if err != nil {
		l.Error("Leaderboard query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"entries": entries})
}

// HandleUserStats returns the derived metrics for one player. An optional
// days query parameter restricts the window.
func (h *Handler) HandleUserStats(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	userID := c.Params("user_id")

	userStats, err := h.service.UserStats(c.Context(), userID, sinceFromDays(c.QueryInt("days", 0)))
	if err != nil {
		l.Error("Stats query failed", zap.String("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if userStats.TotalGames == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no results recorded for user",
		})
	}

	return c.JSON(userStats)
}

// HandleRescan runs a full history rescan and returns its report. A second
// request while one is running gets 409.
func (h *Handler) HandleRescan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	report, err := h.service.Rescan(c.Context())
	if errors.Is(err, reconcile.ErrRescanActive) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if errors.Is(err, ErrNoHistorySource) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		l.Error("Rescan failed", zap.Error(err))
		resp := fiber.Map{"error": err.Error()}
		if report != nil {
			// Partial progress stays committed; surface it.
			resp["report"] = report
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	return c.JSON(report)
}

// sinceFromDays converts the optional days window to an absolute cutoff.
func sinceFromDays(days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}
