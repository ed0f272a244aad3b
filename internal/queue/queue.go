// Package queue implements the in-memory post queue model: ordering,
// lookups and status toggles over the posts held in a document.
package queue

import (
	"errors"
	"sort"
	"time"

	"github.com/maheshrc27/instaflow/internal/models"
)

var ErrNotFound = errors.New("post not found")

// Insert appends the post and restores the scheduled-date ordering.
// A duplicate id is silently ignored; avoiding duplicates is the caller's
// responsibility.
func Insert(doc *models.Document, post *models.Post) {
	if Find(doc, post.ID) != nil {
		return
	}
	doc.Posts = append(doc.Posts, post)
	sortPosts(doc)
}

// Find returns the post with the given id, or nil. Ids are compared in
// canonical string form, so numeric ids from older documents still match.
func Find(doc *models.Document, id models.PostID) *models.Post {
	for _, p := range doc.Posts {
		if p.ID.String() == id.String() {
			return p
		}
	}
	return nil
}

// Remove drops every post matching id and reports whether anything was
// removed.
func Remove(doc *models.Document, id models.PostID) bool {
	kept := doc.Posts[:0]
	removed := false
	for _, p := range doc.Posts {
		if p.ID.String() == id.String() {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	doc.Posts = kept
	return removed
}

// UpdateSchedule sets a new scheduled date and re-sorts the queue.
func UpdateSchedule(doc *models.Document, id models.PostID, date time.Time) error {
	post := Find(doc, id)
	if post == nil {
		return ErrNotFound
	}
	post.ScheduledDate = date
	sortPosts(doc)
	return nil
}

// TogglePause flips a post between paused and scheduled. Published posts are
// terminal and left untouched.
func TogglePause(doc *models.Document, id models.PostID) error {
	post := Find(doc, id)
	if post == nil {
		return ErrNotFound
	}
	switch post.Status {
	case models.PostStatusPaused:
		post.Status = models.PostStatusScheduled
	case models.PostStatusScheduled:
		post.Status = models.PostStatusPaused
	}
	return nil
}

// Due returns the scheduled posts whose date is at or before now, in
// ascending scheduled-date order.
func Due(doc *models.Document, now time.Time) []*models.Post {
	var due []*models.Post
	for _, p := range doc.Posts {
		if p.Status == models.PostStatusScheduled && !p.ScheduledDate.After(now) {
			due = append(due, p)
		}
	}
	return due
}

func sortPosts(doc *models.Document) {
	sort.SliceStable(doc.Posts, func(i, j int) bool {
		return doc.Posts[i].ScheduledDate.Before(doc.Posts[j].ScheduledDate)
	})
}
