package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/instaflow/internal/service"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type SettingsHandler struct {
	s service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{s: s}
}

func (h *SettingsHandler) GetSettingsInfo(c *fiber.Ctx) error {
	info, err := h.s.Info(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(info)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var su transfer.SettingsUpdate
	if err := c.BodyParser(&su); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}
	if err := h.s.Update(c.Context(), &su); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// UpdateSecrets takes the server-held credentials. It is the only write
// path for them; the whole-document API discards secret fields.
func (h *SettingsHandler) UpdateSecrets(c *fiber.Ctx) error {
	var su transfer.SecretsUpdate
	if err := c.BodyParser(&su); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}
	if err := h.s.UpdateSecrets(c.Context(), &su); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
