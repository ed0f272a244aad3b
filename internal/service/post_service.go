package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/queue"
	"github.com/maheshrc27/instaflow/internal/render"
	"github.com/maheshrc27/instaflow/internal/store"
	"github.com/maheshrc27/instaflow/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// scheduleLayout is the datetime-local format the client's picker produces.
const scheduleLayout = "2006-01-02T15:04"

type PostService interface {
	Create(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Remove(ctx context.Context, id models.PostID) error
	Reschedule(ctx context.Context, id models.PostID, date string) error
	TogglePause(ctx context.Context, id models.PostID) error
	EditReopen(ctx context.Context, id models.PostID) (*transfer.PostDraft, error)
	PublishNow(ctx context.Context, id models.PostID) error
}

type postService struct {
	st *store.Store
	ps PublishService
}

func NewPostService(st *store.Store, ps PublishService) PostService {
	return &postService{st: st, ps: ps}
}

// Create finalizes a wizard draft into a stored Post: renders the final
// square image from the edit parameters, normalizes the image name, assigns
// an id and a scheduled date, and inserts it into the queue. A post created
// with the "now" option is pushed through the Publish Executor immediately.
func (s *postService) Create(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error) {
	if pc == nil || pc.ImageData == "" {
		err := errors.New("image is required")
		slog.Info("post creation rejected", "error", err)
		return nil, err
	}
	if pc.Text == "" {
		err := errors.New("text is required")
		slog.Info("post creation rejected", "error", err)
		return nil, err
	}

	rendered, err := render.FromDataURI(pc.ImageData, render.Options{
		OffsetX:    pc.CropOffsetX,
		OffsetY:    pc.CropOffsetY,
		Brightness: pc.Brightness,
		Contrast:   pc.Contrast,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering post image: %w", err)
	}

	doc, err := s.st.Load()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	scheduledDate, err := resolveScheduledDate(pc, doc.Settings, now)
	if err != nil {
		return nil, err
	}

	id := pc.ID
	if id == "" {
		newID, err := gonanoid.New()
		if err != nil {
			return nil, err
		}
		id = models.PostID(newID)
	}

	post := &models.Post{
		ID:                id,
		ImageData:         rendered,
		OriginalImageData: pc.ImageData,
		ImageName:         canonicalImageName(pc.ImageName),
		Text:              pc.Text,
		Tone:              pc.Tone,
		PublicationOption: pc.PublicationOption,
		ScheduledDate:     scheduledDate,
		Status:            models.PostStatusScheduled,
		CreatedAt:         now,
		Brightness:        pc.Brightness,
		Contrast:          pc.Contrast,
		CropOffsetX:       pc.CropOffsetX,
		CropOffsetY:       pc.CropOffsetY,
	}

	queue.Insert(doc, post)
	if err := s.st.Save(doc); err != nil {
		return nil, err
	}

	if pc.PublicationOption == models.PublicationNow {
		if err := s.ps.Publish(ctx, doc, post, PublishOptions{Initiator: "user"}); err != nil {
			// The post stays scheduled; the automation loop retries it.
			return post, err
		}
		if err := s.st.Save(doc); err != nil {
			return post, err
		}
	}
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]*models.Post, error) {
	doc, err := s.st.Load()
	if err != nil {
		return nil, err
	}
	return doc.Posts, nil
}

func (s *postService) Remove(ctx context.Context, id models.PostID) error {
	doc, err := s.st.Load()
	if err != nil {
		return err
	}
	if !queue.Remove(doc, id) {
		return queue.ErrNotFound
	}
	return s.st.Save(doc)
}

func (s *postService) Reschedule(ctx context.Context, id models.PostID, date string) error {
	newDate, err := parseScheduleDate(date)
	if err != nil {
		return fmt.Errorf("invalid scheduled date: %w", err)
	}
	doc, err := s.st.Load()
	if err != nil {
		return err
	}
	if err := queue.UpdateSchedule(doc, id, newDate); err != nil {
		return err
	}
	return s.st.Save(doc)
}

func (s *postService) TogglePause(ctx context.Context, id models.PostID) error {
	doc, err := s.st.Load()
	if err != nil {
		return err
	}
	if err := queue.TogglePause(doc, id); err != nil {
		return err
	}
	return s.st.Save(doc)
}

// EditReopen removes a queued post and hands it back as a draft carrying the
// pre-render image and edit parameters, so re-saving renders identically.
func (s *postService) EditReopen(ctx context.Context, id models.PostID) (*transfer.PostDraft, error) {
	doc, err := s.st.Load()
	if err != nil {
		return nil, err
	}
	post := queue.Find(doc, id)
	if post == nil {
		return nil, queue.ErrNotFound
	}

	imageData := post.OriginalImageData
	if imageData == "" {
		imageData = post.ImageData
	}
	draft := &transfer.PostDraft{
		ID:                post.ID,
		ImageData:         imageData,
		ImageName:         post.ImageName,
		Text:              post.Text,
		Tone:              post.Tone,
		PublicationOption: post.PublicationOption,
		ScheduledDate:     post.ScheduledDate.Format(time.RFC3339),
		Status:            models.PostStatusDraft,
		Brightness:        post.Brightness,
		Contrast:          post.Contrast,
		CropOffsetX:       post.CropOffsetX,
		CropOffsetY:       post.CropOffsetY,
	}

	queue.Remove(doc, id)
	if err := s.st.Save(doc); err != nil {
		return nil, err
	}
	return draft, nil
}

// PublishNow is the manual per-post trigger: strict about configuration and
// persisted only on success.
func (s *postService) PublishNow(ctx context.Context, id models.PostID) error {
	doc, err := s.st.Load()
	if err != nil {
		return err
	}
	post := queue.Find(doc, id)
	if post == nil {
		return queue.ErrNotFound
	}
	if err := s.ps.Publish(ctx, doc, post, PublishOptions{Initiator: "user"}); err != nil {
		return err
	}
	return s.st.Save(doc)
}

func resolveScheduledDate(pc *transfer.PostCreation, settings models.Settings, now time.Time) (time.Time, error) {
	switch pc.PublicationOption {
	case models.PublicationNow:
		return now, nil
	case models.PublicationSchedule:
		if pc.ScheduledDate == "" {
			return time.Time{}, errors.New("scheduled date is required")
		}
		return parseScheduleDate(pc.ScheduledDate)
	default:
		if pc.ScheduledDate != "" {
			return parseScheduleDate(pc.ScheduledDate)
		}
		return nextQueueDate(settings, now), nil
	}
}

func parseScheduleDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(scheduleLayout, s, time.Local)
}

// nextQueueDate computes the default cadence slot: tomorrow at the
// configured start time.
func nextQueueDate(settings models.Settings, now time.Time) time.Time {
	hour, minute := 9, 0
	if t, err := time.Parse("15:04", settings.TimeStart); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, minute, 0, 0, now.Location())
}

// canonicalImageName swaps whatever extension the upload had for the .jpg
// the rendered output actually is.
func canonicalImageName(name string) string {
	if name == "" {
		return ""
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".jpg"
}
