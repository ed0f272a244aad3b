package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/instaflow/internal/queue"
	"github.com/maheshrc27/instaflow/internal/service"
)

// statusForError maps the service error taxonomy onto HTTP statuses:
// unknown ids are 404, configuration gaps 412, sink failures 502.
func statusForError(err error) int {
	var sinkErr *service.SinkError
	switch {
	case errors.Is(err, queue.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrWebhookNotConfigured),
		errors.Is(err, service.ErrAPIKeyNotConfigured):
		return fiber.StatusPreconditionFailed
	case errors.As(err, &sinkErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
