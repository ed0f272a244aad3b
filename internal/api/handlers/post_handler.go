package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/service"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{s: s}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error("post create: bad body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	post, err := h.s.Create(c.Context(), &pc)
	if err != nil {
		if post != nil {
			// Stored but not delivered; the client should surface the
			// delivery failure while keeping the queued post.
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"error": err.Error(),
				"post":  post,
			})
		}
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(posts)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), postID(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) ReschedulePost(c *fiber.Ctx) error {
	var body transfer.Reschedule
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}
	if err := h.s.Reschedule(c.Context(), postID(c), body.ScheduledDate); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) TogglePausePost(c *fiber.Ctx) error {
	if err := h.s.TogglePause(c.Context(), postID(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// EditPost reopens a queued post as a draft: it leaves the store and comes
// back to the client with its pre-render image and edit parameters.
func (h *PostHandler) EditPost(c *fiber.Ctx) error {
	draft, err := h.s.EditReopen(c.Context(), postID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(draft)
}

// PublishPost is the manual trigger: synchronous delivery, persisted on
// success, hard failure when no webhook is configured.
func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	if err := h.s.PublishNow(c.Context(), postID(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post published"})
}

func postID(c *fiber.Ctx) models.PostID {
	return models.PostID(c.Params("id"))
}
