package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/terminal"
)

type SnapshotHandler struct {
	svc *terminal.Service
}

func NewSnapshotHandler(svc *terminal.Service) *SnapshotHandler {
	return &SnapshotHandler{svc}
}

// Handles GET /snapshot.
func (h *SnapshotHandler) GetSnapshot(c fiber.Ctx) error {
	snap, ok, err := h.load(c)
	if !ok {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

// Handles POST /snapshot/refresh. Clears the cached snapshot and the latest
// advisory before rebuilding.
func (h *SnapshotHandler) Refresh(c fiber.Ctx) error {
	log.Info().Msg("manual refresh requested")

	snap, err := h.svc.Reset(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("refresh failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "snapshot refresh failed",
		})
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

// Handles GET /strength.
func (h *SnapshotHandler) GetStrength(c fiber.Ctx) error {
	snap, ok, err := h.load(c)
	if !ok {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"strength": snap.Strength,
		"ranked":   snap.Ranked,
		"bias":     snap.Bias,
	})
}

// Handles GET /signal.
func (h *SnapshotHandler) GetSignal(c fiber.Ctx) error {
	snap, ok, err := h.load(c)
	if !ok {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(snap.Signal)
}

// Handles GET /news.
func (h *SnapshotHandler) GetNews(c fiber.Ctx) error {
	snap, ok, err := h.load(c)
	if !ok {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"events": snap.News,
		"live":   snap.NewsLive,
	})
}

// ok is false when the response has already been written.
func (h *SnapshotHandler) load(c fiber.Ctx) (models.Snapshot, bool, error) {
	snap, err := h.svc.Snapshot(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("snapshot unavailable")
		return snap, false, c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "snapshot unavailable",
		})
	}
	return snap, true, nil
}
