package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/store"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

var ErrWebhookNotConfigured = errors.New("webhook URL is not configured")

// SinkError reports a non-2xx answer from the webhook sink.
type SinkError struct {
	StatusCode int
	Body       string
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink returned %d: %s", e.StatusCode, e.Body)
}

// PublishOptions selects who triggered the delivery and what to do when no
// sink is configured. The scheduler allows local publishes so an operator
// without a webhook still drains the queue; the manual path never does.
type PublishOptions struct {
	Initiator         string
	AllowUnconfigured bool
}

type PublishService interface {
	Publish(ctx context.Context, doc *models.Document, post *models.Post, opts PublishOptions) error
}

type publishService struct {
	secrets *store.SecretStore
	client  *http.Client
}

func NewPublishService(secrets *store.SecretStore) PublishService {
	return &publishService{
		secrets: secrets,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish delivers one post to the configured sink. On 2xx the post becomes
// published and its image name joins the used-image ledger; on any failure
// the post is left untouched.
func (s *publishService) Publish(ctx context.Context, doc *models.Document, post *models.Post, opts PublishOptions) error {
	sec, err := s.secrets.Load()
	if err != nil {
		return err
	}

	if sec.WebhookURL == "" {
		if !opts.AllowUnconfigured {
			return ErrWebhookNotConfigured
		}
		slog.Warn("no webhook configured, marking post published locally", "post", post.ID)
		post.Status = models.PostStatusPublished
		return nil
	}

	payload := BuildWebhookPayload(post, opts.Initiator)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sec.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering post %s: %w", post.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &SinkError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	post.Status = models.PostStatusPublished
	doc.MarkImageUsed(post.ImageName)
	return nil
}

// BuildWebhookPayload shapes the sink body. The image payload is sent as
// bare base64: everything before the first comma of a data URI is dropped.
func BuildWebhookPayload(post *models.Post, initiator string) *transfer.WebhookPayload {
	imageData := post.ImageData
	if i := strings.Index(imageData, ","); i != -1 {
		imageData = imageData[i+1:]
	}
	return &transfer.WebhookPayload{
		ID:            post.ID,
		Text:          post.Text,
		Status:        "published_by_" + initiator,
		ScheduledDate: post.ScheduledDate.Format(time.RFC3339),
		ImageName:     post.ImageName,
		ImageData:     imageData,
		ToneUsed:      post.Tone,
	}
}
