package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/instaflow/internal/queue"
	"github.com/maheshrc27/instaflow/internal/service"
	"github.com/maheshrc27/instaflow/internal/store"
)

// PublishJob is the scheduler tick: reload the document, deliver every due
// post, persist when something changed.
type PublishJob struct {
	st *store.Store
	ps service.PublishService
}

func NewPublishJob(st *store.Store, ps service.PublishService) *PublishJob {
	return &PublishJob{st: st, ps: ps}
}

// Run executes one tick. The document is re-read from disk every time so
// manual actions taken since the last tick are honored. Posts are processed
// sequentially in scheduled-date order; a failing post never stops the rest.
func (j *PublishJob) Run() {
	ctx := context.Background()

	doc, err := j.st.Load()
	if err != nil {
		slog.Error("automation tick: store load failed", "error", err)
		return
	}

	due := queue.Due(doc, time.Now())
	if len(due) == 0 {
		return
	}
	slog.Info("automation tick: publishing due posts", "count", len(due))

	changed := false
	for _, post := range due {
		opts := service.PublishOptions{Initiator: "server", AllowUnconfigured: true}
		if err := j.ps.Publish(ctx, doc, post, opts); err != nil {
			slog.Error("automation tick: publish failed", "post", post.ID, "error", err)
			continue
		}
		slog.Info("automation tick: post published", "post", post.ID)
		changed = true
	}

	if changed {
		if err := j.st.Save(doc); err != nil {
			slog.Error("automation tick: store save failed", "error", err)
		}
	}
}
