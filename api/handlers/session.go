package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/terminal"
)

type SessionHandler struct {
	svc *terminal.Service
	now func() time.Time
}

func NewSessionHandler(svc *terminal.Service) *SessionHandler {
	return &SessionHandler{svc: svc, now: time.Now}
}

// Handles GET /sessions?at=<RFC3339>.
func (h *SessionHandler) GetSessions(c fiber.Ctx) error {
	at := h.now()
	if raw := c.Query("at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "at must be an RFC3339 timestamp",
			})
		}
		at = t
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  h.svc.Sessions(at),
		"windows": h.svc.SessionWindows(),
	})
}
