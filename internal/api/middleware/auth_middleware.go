package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/pkg/utils"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware guards the API when an access code is configured: requests
// need either the session cookie minted by /login or the code itself as an
// api_key parameter. With no access code set, the instance is open.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.AccessCode == "" {
			return c.Next()
		}

		tokenString := c.Cookies(m.cfg.CookieName)
		apiKey := c.Query("api_key")

		if tokenString == "" && apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing session cookie or api key",
			})
		}

		if apiKey != "" {
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.AccessCode)) != 1 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid api key",
				})
			}
			return c.Next()
		}

		if _, err := utils.ValidateToken(m.cfg.SecretKey, tokenString); err != nil {
			c.Cookie(&fiber.Cookie{
				Name:   m.cfg.CookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})

			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		return c.Next()
	}
}
