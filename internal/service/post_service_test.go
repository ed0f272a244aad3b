package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/queue"
	"github.com/maheshrc27/instaflow/internal/store"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type stubPublisher struct {
	calls int
	err   error
}

func (s *stubPublisher) Publish(ctx context.Context, doc *models.Document, post *models.Post, opts PublishOptions) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	post.Status = models.PostStatusPublished
	doc.MarkImageUsed(post.ImageName)
	return nil
}

func imageDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newPostService(t *testing.T) (*postService, *store.Store, *stubPublisher) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "db.json"))
	pub := &stubPublisher{}
	return &postService{st: st, ps: pub}, st, pub
}

func TestCreateQueuedPostUsesDefaultCadence(t *testing.T) {
	svc, st, _ := newPostService(t)

	post, err := svc.Create(context.Background(), &transfer.PostCreation{
		ImageData:         imageDataURI(t),
		ImageName:         "holiday photo.png",
		Text:              "hello",
		Tone:              "warm",
		PublicationOption: models.PublicationQueue,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if post.ID == "" {
		t.Error("expected an assigned id")
	}
	if post.Status != models.PostStatusScheduled {
		t.Errorf("got status %s, want scheduled", post.Status)
	}
	if post.ImageName != "holiday photo.jpg" {
		t.Errorf("got image name %q, want canonical .jpg", post.ImageName)
	}
	if !strings.HasPrefix(post.ImageData, "data:image/jpeg;base64,") {
		t.Error("expected a rendered jpeg data URI")
	}
	if post.OriginalImageData == "" {
		t.Error("expected the source image to be retained for edit-reopen")
	}

	// Default cadence: tomorrow at the configured start time.
	wantDay := time.Now().AddDate(0, 0, 1)
	if post.ScheduledDate.Day() != wantDay.Day() || post.ScheduledDate.Hour() != 9 {
		t.Errorf("unexpected default schedule %v", post.ScheduledDate)
	}

	doc, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Posts) != 1 || doc.Posts[0].ID != post.ID {
		t.Fatalf("post not persisted: %+v", doc.Posts)
	}
}

func TestCreateScheduledPostParsesPickerDate(t *testing.T) {
	svc, _, _ := newPostService(t)

	post, err := svc.Create(context.Background(), &transfer.PostCreation{
		ImageData:         imageDataURI(t),
		ImageName:         "a.png",
		Text:              "hello",
		PublicationOption: models.PublicationSchedule,
		ScheduledDate:     "2026-12-24T18:30",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.ScheduledDate.Hour() != 18 || post.ScheduledDate.Minute() != 30 {
		t.Errorf("unexpected scheduled date %v", post.ScheduledDate)
	}
}

func TestCreateRejectsIncompleteDrafts(t *testing.T) {
	svc, _, _ := newPostService(t)

	if _, err := svc.Create(context.Background(), &transfer.PostCreation{Text: "no image"}); err == nil {
		t.Error("expected an error without an image")
	}
	if _, err := svc.Create(context.Background(), &transfer.PostCreation{ImageData: imageDataURI(t)}); err == nil {
		t.Error("expected an error without text")
	}
	missing := &transfer.PostCreation{
		ImageData:         imageDataURI(t),
		Text:              "x",
		PublicationOption: models.PublicationSchedule,
	}
	if _, err := svc.Create(context.Background(), missing); err == nil {
		t.Error("expected an error for schedule without a date")
	}
}

func TestCreateNowPublishesImmediately(t *testing.T) {
	svc, st, pub := newPostService(t)

	post, err := svc.Create(context.Background(), &transfer.PostCreation{
		ImageData:         imageDataURI(t),
		ImageName:         "now.png",
		Text:              "hello",
		PublicationOption: models.PublicationNow,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pub.calls != 1 {
		t.Fatalf("expected one publish call, got %d", pub.calls)
	}

	doc, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	stored := queue.Find(doc, post.ID)
	if stored == nil || stored.Status != models.PostStatusPublished {
		t.Fatalf("expected the stored post to be published, got %+v", stored)
	}
	if len(doc.UsedImages) != 1 {
		t.Errorf("expected the ledger entry to persist, got %v", doc.UsedImages)
	}
}

func TestCreateNowDeliveryFailureKeepsPostScheduled(t *testing.T) {
	svc, st, pub := newPostService(t)
	pub.err = ErrWebhookNotConfigured

	post, err := svc.Create(context.Background(), &transfer.PostCreation{
		ImageData:         imageDataURI(t),
		ImageName:         "now.png",
		Text:              "hello",
		PublicationOption: models.PublicationNow,
	})
	if !errors.Is(err, ErrWebhookNotConfigured) {
		t.Fatalf("expected the delivery error, got %v", err)
	}
	if post == nil {
		t.Fatal("expected the stored post back alongside the error")
	}

	doc, _ := st.Load()
	stored := queue.Find(doc, post.ID)
	if stored == nil || stored.Status != models.PostStatusScheduled {
		t.Fatalf("expected the post to stay scheduled for retry, got %+v", stored)
	}
}

func TestEditReopenRemovesPostAndReturnsDraft(t *testing.T) {
	svc, st, _ := newPostService(t)

	post, err := svc.Create(context.Background(), &transfer.PostCreation{
		ImageData:         imageDataURI(t),
		ImageName:         "edit.png",
		Text:              "hello",
		Tone:              "warm",
		PublicationOption: models.PublicationQueue,
		Brightness:        15,
		CropOffsetX:       20,
	})
	if err != nil {
		t.Fatal(err)
	}

	draft, err := svc.EditReopen(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("edit reopen: %v", err)
	}
	if draft.Status != models.PostStatusDraft {
		t.Errorf("got draft status %s", draft.Status)
	}
	if draft.ImageData != post.OriginalImageData {
		t.Error("draft should carry the pre-render image")
	}
	if draft.Brightness != 15 || draft.CropOffsetX != 20 {
		t.Errorf("edit parameters lost: %+v", draft)
	}

	doc, _ := st.Load()
	if len(doc.Posts) != 0 {
		t.Fatalf("post should have left the store, got %d", len(doc.Posts))
	}

	// Re-saving the draft restores exactly one post with the same id.
	if _, err := svc.Create(context.Background(), &transfer.PostCreation{
		ID:                draft.ID,
		ImageData:         draft.ImageData,
		ImageName:         draft.ImageName,
		Text:              "edited",
		PublicationOption: models.PublicationQueue,
	}); err != nil {
		t.Fatal(err)
	}
	doc, _ = st.Load()
	if len(doc.Posts) != 1 || doc.Posts[0].ID != post.ID {
		t.Fatalf("re-save should restore the same id once: %+v", doc.Posts)
	}
}

func TestRemoveUnknownIDReportsNotFound(t *testing.T) {
	svc, _, _ := newPostService(t)
	if err := svc.Remove(context.Background(), "missing"); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReschedulePersistsNewOrder(t *testing.T) {
	svc, st, _ := newPostService(t)

	first, err := svc.Create(context.Background(), &transfer.PostCreation{
		ImageData: imageDataURI(t), ImageName: "a.png", Text: "a",
		PublicationOption: models.PublicationSchedule, ScheduledDate: "2026-10-01T09:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), &transfer.PostCreation{
		ImageData: imageDataURI(t), ImageName: "b.png", Text: "b",
		PublicationOption: models.PublicationSchedule, ScheduledDate: "2026-10-02T09:00",
	}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Reschedule(context.Background(), first.ID, "2026-10-03T09:00"); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	doc, _ := st.Load()
	if doc.Posts[1].ID != first.ID {
		t.Fatalf("expected the rescheduled post last, got %+v", doc.Posts)
	}
}

func TestCanonicalImageName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "photo.png", want: "photo.jpg"},
		{in: "photo.JPEG", want: "photo.jpg"},
		{in: "archive.tar.gz", want: "archive.tar.jpg"},
		{in: "noext", want: "noext.jpg"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := canonicalImageName(tt.in); got != tt.want {
			t.Errorf("canonicalImageName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNextQueueDateUsesConfiguredStartTime(t *testing.T) {
	now := time.Date(2026, 8, 28, 22, 15, 0, 0, time.UTC)
	settings := models.Settings{TimeStart: "14:30"}

	got := nextQueueDate(settings, now)
	want := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Unparseable start time falls back to 09:00.
	got = nextQueueDate(models.Settings{TimeStart: "bogus"}, now)
	if got.Hour() != 9 || got.Minute() != 0 {
		t.Errorf("fallback slot wrong: %v", got)
	}
}
