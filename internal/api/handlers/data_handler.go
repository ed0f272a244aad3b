package handlers

import (
	"log/slog"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/instaflow/internal/store"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

// DataHandler serves the whole-document API the client syncs against.
type DataHandler struct {
	st      *store.Store
	secrets *store.SecretStore
}

func NewDataHandler(st *store.Store, secrets *store.SecretStore) *DataHandler {
	return &DataHandler{st: st, secrets: secrets}
}

// GetData returns the full document. Secrets are masked to presence
// booleans; their values never leave the server.
func (h *DataHandler) GetData(c *fiber.Ctx) error {
	doc, err := h.st.Load()
	if err != nil {
		return errorJSON(c, err)
	}
	sec, err := h.secrets.Load()
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(transfer.DataView{
		Posts:      doc.Posts,
		UsedImages: doc.UsedImages,
		Settings: transfer.SettingsView{
			Settings:      doc.Settings,
			HasAPIKey:     sec.APIKey != "",
			HasWebhookURL: sec.WebhookURL != "",
		},
	})
}

// SaveData replaces the document with the client's copy. Secret settings
// fields have no decode target, so anything the client sends for them is
// discarded. The sort invariant is restored before writing.
func (h *DataHandler) SaveData(c *fiber.Ctx) error {
	var snapshot transfer.DataSnapshot
	if err := c.BodyParser(&snapshot); err != nil {
		slog.Error("data save: bad body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	doc, err := h.st.Load()
	if err != nil {
		return errorJSON(c, err)
	}

	if snapshot.Posts != nil {
		doc.Posts = snapshot.Posts
		sort.SliceStable(doc.Posts, func(i, j int) bool {
			return doc.Posts[i].ScheduledDate.Before(doc.Posts[j].ScheduledDate)
		})
	}
	if snapshot.UsedImages != nil {
		for _, name := range snapshot.UsedImages {
			doc.MarkImageUsed(name)
		}
	}
	doc.Settings.InstagramAccount = snapshot.Settings.InstagramAccount
	doc.Settings.Frequency = snapshot.Settings.Frequency
	doc.Settings.TimeStart = snapshot.Settings.TimeStart
	doc.Settings.TimeEnd = snapshot.Settings.TimeEnd
	doc.Settings.DefaultTone = snapshot.Settings.DefaultTone

	if err := h.st.Save(doc); err != nil {
		slog.Error("data save failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save data",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
