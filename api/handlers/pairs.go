package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/terminal"
)

type PairsHandler struct {
	svc *terminal.Service
}

func NewPairsHandler(svc *terminal.Service) *PairsHandler {
	return &PairsHandler{svc}
}

type selectPairRequest struct {
	Pair string `json:"pair" validate:"required,major_pair"`
}

// Handles GET /pairs.
func (h *PairsHandler) GetPairs(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"pairs":    models.MajorPairs,
		"selected": h.svc.State().SelectedPair,
	})
}

// Handles PUT /pairs/selected.
func (h *PairsHandler) SelectPair(c fiber.Ctx) error {
	var req selectPairRequest
	if errs := bindAndValidate(c, &req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if err := h.svc.SelectPair(req.Pair); err != nil {
		if errors.Is(err, terminal.ErrUnknownPair) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"selected": req.Pair})
}
