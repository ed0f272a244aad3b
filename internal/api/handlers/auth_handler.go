package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/transfer"
	"github.com/maheshrc27/instaflow/pkg/utils"
)

const sessionDuration = 30 * 24 * time.Hour

type AuthHandler struct {
	cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Login exchanges the operator access code for a session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if h.cfg.AccessCode == "" {
		return c.JSON(fiber.Map{"message": "Authentication is disabled"})
	}

	var req transfer.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessCode), []byte(h.cfg.AccessCode)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid access code",
		})
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, sessionDuration)
	if err != nil {
		return errorJSON(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionDuration.Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"message": "Logged in"})
}
