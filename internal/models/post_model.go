package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PostID is an opaque post identifier. Documents written by earlier versions
// of the app carry numeric ids (millisecond timestamps); both forms unmarshal
// to the same canonical string so lookups and deletes match either way.
type PostID string

func (id PostID) String() string {
	return string(id)
}

func (id *PostID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = PostID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = PostID(n.String())
	return nil
}

type Post struct {
	ID                PostID    `json:"id"`
	ImageData         string    `json:"imageData"`
	OriginalImageData string    `json:"originalImageData,omitempty"`
	ImageName         string    `json:"imageName"`
	Text              string    `json:"text"`
	Tone              string    `json:"tone"`
	PublicationOption string    `json:"publicationOption"`
	ScheduledDate     time.Time `json:"scheduledDate"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	Brightness        int       `json:"brightness"`
	Contrast          int       `json:"contrast"`
	CropOffsetX       float64   `json:"cropOffsetX"`
	CropOffsetY       float64   `json:"cropOffsetY"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPaused    = "paused"
	PostStatusPublished = "published"
)

const (
	PublicationNow      = "now"
	PublicationQueue    = "queue"
	PublicationSchedule = "schedule"
)
