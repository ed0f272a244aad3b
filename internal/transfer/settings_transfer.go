package transfer

import "github.com/maheshrc27/instaflow/internal/models"

// SettingsView is what the client sees: display settings plus presence
// booleans for the server-held secrets.
type SettingsView struct {
	models.Settings
	HasAPIKey     bool `json:"hasApiKey"`
	HasWebhookURL bool `json:"hasWebhookUrl"`
}

// SettingsUpdate carries only the non-secret fields; anything else a client
// sends is dropped on decode.
type SettingsUpdate struct {
	InstagramAccount string `json:"instagramAccount"`
	Frequency        string `json:"frequency"`
	TimeStart        string `json:"timeStart"`
	TimeEnd          string `json:"timeEnd"`
	DefaultTone      string `json:"defaultTone"`
}

// SecretsUpdate is accepted only on the server-side secrets endpoint. Empty
// fields leave the stored value unchanged.
type SecretsUpdate struct {
	WebhookURL string `json:"webhookUrl"`
	APIKey     string `json:"apiKey"`
}

// DataSnapshot is the POST /api/data body: the client's full copy of the
// document. Secret settings fields have no landing spot here by design.
type DataSnapshot struct {
	Posts      []*models.Post `json:"posts"`
	UsedImages []string       `json:"usedImages"`
	Settings   SettingsUpdate `json:"settings"`
}

// DataView is the GET /api/data response.
type DataView struct {
	Posts      []*models.Post `json:"posts"`
	UsedImages []string       `json:"usedImages"`
	Settings   SettingsView   `json:"settings"`
}

type CaptionRequest struct {
	Tone      string `json:"tone"`
	ImageData string `json:"imageData"`
}

type LoginRequest struct {
	AccessCode string `json:"accessCode"`
}
