package service

import (
	"context"

	"github.com/maheshrc27/instaflow/internal/store"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type SettingsService interface {
	Info(ctx context.Context) (*transfer.SettingsView, error)
	Update(ctx context.Context, su *transfer.SettingsUpdate) error
	UpdateSecrets(ctx context.Context, su *transfer.SecretsUpdate) error
}

type settingsService struct {
	st      *store.Store
	secrets *store.SecretStore
}

func NewSettingsService(st *store.Store, secrets *store.SecretStore) SettingsService {
	return &settingsService{st: st, secrets: secrets}
}

// Info returns the display settings with secrets masked to presence flags.
func (s *settingsService) Info(ctx context.Context) (*transfer.SettingsView, error) {
	doc, err := s.st.Load()
	if err != nil {
		return nil, err
	}
	sec, err := s.secrets.Load()
	if err != nil {
		return nil, err
	}
	return &transfer.SettingsView{
		Settings:      doc.Settings,
		HasAPIKey:     sec.APIKey != "",
		HasWebhookURL: sec.WebhookURL != "",
	}, nil
}

func (s *settingsService) Update(ctx context.Context, su *transfer.SettingsUpdate) error {
	doc, err := s.st.Load()
	if err != nil {
		return err
	}
	doc.Settings.InstagramAccount = su.InstagramAccount
	doc.Settings.Frequency = su.Frequency
	doc.Settings.TimeStart = su.TimeStart
	doc.Settings.TimeEnd = su.TimeEnd
	doc.Settings.DefaultTone = su.DefaultTone
	return s.st.Save(doc)
}

// UpdateSecrets writes the server-held credentials. Empty fields keep the
// stored value so the operator can rotate one secret at a time.
func (s *settingsService) UpdateSecrets(ctx context.Context, su *transfer.SecretsUpdate) error {
	sec, err := s.secrets.Load()
	if err != nil {
		return err
	}
	if su.WebhookURL != "" {
		sec.WebhookURL = su.WebhookURL
	}
	if su.APIKey != "" {
		sec.APIKey = su.APIKey
	}
	return s.secrets.Save(sec)
}
