package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/instaflow/internal/service"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type CaptionHandler struct {
	s service.CaptionService
}

func NewCaptionHandler(s service.CaptionService) *CaptionHandler {
	return &CaptionHandler{s: s}
}

// GenerateCaptions proxies the captioning call with the server-held key.
// Without a key the simulated templates keep the wizard usable; an API
// failure also degrades to them rather than blocking the flow.
func (h *CaptionHandler) GenerateCaptions(c *fiber.Ctx) error {
	var req transfer.CaptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	captions, err := h.s.Generate(c.Context(), req.Tone, req.ImageData)
	if err != nil {
		if !errors.Is(err, service.ErrAPIKeyNotConfigured) {
			slog.Error("caption generation failed, falling back to simulation", "error", err)
		}
		return c.JSON(fiber.Map{
			"captions":  service.SimulatedCaptions(req.Tone),
			"simulated": true,
		})
	}

	return c.JSON(fiber.Map{"captions": captions})
}
