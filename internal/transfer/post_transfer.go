package transfer

import "github.com/maheshrc27/instaflow/internal/models"

// PostCreation is the finalized wizard draft sent by the client. ID is only
// set when re-saving a post that was reopened for editing.
type PostCreation struct {
	ID                models.PostID `json:"id,omitempty"`
	ImageData         string        `json:"imageData"`
	ImageName         string        `json:"imageName"`
	Text              string        `json:"text"`
	Tone              string        `json:"tone"`
	PublicationOption string        `json:"publicationOption"`
	ScheduledDate     string        `json:"scheduledDate,omitempty"`
	Brightness        int           `json:"brightness"`
	Contrast          int           `json:"contrast"`
	CropOffsetX       float64       `json:"cropOffsetX"`
	CropOffsetY       float64       `json:"cropOffsetY"`
}

// PostDraft is an edit-reopened post, handed back to the client with the
// pre-render image so the crop and filters can be re-applied identically.
type PostDraft struct {
	ID                models.PostID `json:"id"`
	ImageData         string        `json:"imageData"`
	ImageName         string        `json:"imageName"`
	Text              string        `json:"text"`
	Tone              string        `json:"tone"`
	PublicationOption string        `json:"publicationOption"`
	ScheduledDate     string        `json:"scheduledDate"`
	Status            string        `json:"status"`
	Brightness        int           `json:"brightness"`
	Contrast          int           `json:"contrast"`
	CropOffsetX       float64       `json:"cropOffsetX"`
	CropOffsetY       float64       `json:"cropOffsetY"`
}

type Reschedule struct {
	ScheduledDate string `json:"scheduledDate"`
}

// WebhookPayload is the outbound sink contract. ImageData carries raw
// base64 with any data-URI prefix stripped.
type WebhookPayload struct {
	ID            models.PostID `json:"id"`
	Text          string        `json:"text"`
	Status        string        `json:"status"`
	ScheduledDate string        `json:"scheduled_date"`
	ImageName     string        `json:"image_name"`
	ImageData     string        `json:"image_data"`
	ToneUsed      string        `json:"tone_used"`
}
