package models

// Settings holds the client-visible preferences. Secret-bearing values
// (webhook URL, OpenAI key) live in Secrets and are never part of the
// document returned to the browser.
type Settings struct {
	InstagramAccount string `json:"instagramAccount"`
	Frequency        string `json:"frequency"`
	TimeStart        string `json:"timeStart"`
	TimeEnd          string `json:"timeEnd"`
	DefaultTone      string `json:"defaultTone"`
}

func DefaultSettings() Settings {
	return Settings{
		Frequency: "daily",
		TimeStart: "09:00",
		TimeEnd:   "18:00",
	}
}

// Secrets are server-held credentials, stored in their own document.
type Secrets struct {
	WebhookURL string `json:"webhookUrl"`
	APIKey     string `json:"apiKey"`
}
