package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/advisory"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/terminal"
)

const apiKeyHeader = "X-Gemini-Key"

type AdvisoryHandler struct {
	svc *terminal.Service
}

func NewAdvisoryHandler(svc *terminal.Service) *AdvisoryHandler {
	return &AdvisoryHandler{svc}
}

// An empty pair analyses the currently selected one.
type advisoryRequest struct {
	Pair string `json:"pair" validate:"omitempty,major_pair"`
}

// Handles POST /advisory.
func (h *AdvisoryHandler) Analyze(c fiber.Ctx) error {
	var req advisoryRequest
	if errs := bindAndValidate(c, &req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	adv, err := h.svc.Analyze(c.Context(), req.Pair, c.Get(apiKeyHeader))
	switch {
	case errors.Is(err, advisory.ErrMissingCredential):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "an advisory api key is required",
			"code":  "MISSING_CREDENTIAL",
		})
	case errors.Is(err, terminal.ErrUnknownPair):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		log.Error().Err(err).Msg("advisory request failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "snapshot unavailable",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"pair":     h.svc.State().SelectedPair,
		"advisory": adv,
	})
}

// Handles GET /advisory/latest.
func (h *AdvisoryHandler) Latest(c fiber.Ctx) error {
	st := h.svc.State()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"pair":     st.SelectedPair,
		"advisory": st.Advisory,
	})
}
