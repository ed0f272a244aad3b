package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/pkg/utils"
)

// SecretStore holds the server-side credentials (webhook URL, OpenAI key)
// in a document separate from the client-facing one. The API key is
// encrypted at rest when a secret key is configured.
type SecretStore struct {
	path string
	key  []byte
	mu   sync.Mutex
}

func NewSecretStore(path, secretKey string) *SecretStore {
	s := &SecretStore{path: path}
	if secretKey != "" {
		s.key = utils.DeriveKey(secretKey)
	}
	return s
}

func (s *SecretStore) Load() (*models.Secrets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &models.Secrets{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var sec models.Secrets
	if err := json.Unmarshal(data, &sec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}

	if sec.APIKey != "" && s.key != nil {
		plain, err := utils.Decrypt(sec.APIKey, s.key)
		if err != nil {
			// Key likely changed between boots; the stored value is
			// unrecoverable, treat it as unset.
			slog.Error("secret decrypt failed", "error", err)
			sec.APIKey = ""
		} else {
			sec.APIKey = plain
		}
	}
	return &sec, nil
}

func (s *SecretStore) Save(sec *models.Secrets) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := *sec
	if out.APIKey != "" && s.key != nil {
		enc, err := utils.Encrypt([]byte(out.APIKey), s.key)
		if err != nil {
			return fmt.Errorf("encrypting api key: %w", err)
		}
		out.APIKey = enc
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding secrets: %w", err)
	}
	return writeAtomic(s.path, data)
}
