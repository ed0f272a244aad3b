package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/maheshrc27/instaflow/internal/models"
)

// Store persists the whole application document to a single JSON file.
// Every mutation is a full-document rewrite; the mutex plus the advisory
// file lock form the single-writer boundary between request handlers and
// the publish job.
type Store struct {
	path string
	mu   sync.Mutex
	fl   *flock.Flock
}

func New(path string) *Store {
	return &Store{
		path: path,
		fl:   flock.New(path + ".lock"),
	}
}

// Load reads the document from disk. A missing file yields an empty default
// document; a malformed file is an error so a later Save cannot clobber
// state we failed to read.
func (s *Store) Load() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewDocument(), nil
		}
		slog.Error("store read failed", "path", s.path, "error", err)
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		slog.Error("store parse failed", "path", s.path, "error", err)
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if doc.Posts == nil {
		doc.Posts = []*models.Post{}
	}
	if doc.UsedImages == nil {
		doc.UsedImages = []string{}
	}
	return doc, nil
}

// Save writes the document atomically: marshal, write a temp file in the
// same directory, rename over the target.
func (s *Store) Save(doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fl.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", s.path, err)
	}
	defer s.fl.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return writeAtomic(s.path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
