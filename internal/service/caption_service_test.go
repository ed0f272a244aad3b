package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/store"
)

func TestParseProposals(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "clean json array",
			content: `["first caption", "second caption", "third caption"]`,
			want:    []string{"first caption", "second caption", "third caption"},
		},
		{
			name:    "fenced json",
			content: "```json\n[\"a caption\", \"b caption\", \"c caption\"]\n```",
			want:    []string{"a caption", "b caption", "c caption"},
		},
		{
			name:    "array buried in prose",
			content: `Here are your captions: ["one", "two", "three"] enjoy!`,
			want:    []string{"one", "two", "three"},
		},
		{
			name:    "short array gets padded",
			content: `["only one"]`,
			want:    []string{"only one", "...", "..."},
		},
		{
			name:    "escaped newlines survive",
			content: `["line one\n\n#tag", "two captions here", "three captions here"]`,
			want:    []string{"line one\n\n#tag", "two captions here", "three captions here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseProposals(tt.content)
			if len(got) != 3 {
				t.Fatalf("expected 3 proposals, got %d", len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("proposal %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseProposalsFallsBackToLineSplit(t *testing.T) {
	content := strings.Join([]string{
		"This is the very first caption proposal for the post.",
		"And here is a second caption that is long enough.",
		"Finally a third caption with plenty of characters.",
		"ok", // short noise, filtered out
	}, "\n")

	got := parseProposals(content)
	if got[0] != "This is the very first caption proposal for the post." {
		t.Errorf("unexpected first proposal: %q", got[0])
	}
	if got[2] != "Finally a third caption with plenty of characters." {
		t.Errorf("unexpected third proposal: %q", got[2])
	}
}

func TestParseProposalsTotalFailureReturnsRawContent(t *testing.T) {
	got := parseProposals("garbage")
	if len(got) != 3 {
		t.Fatalf("expected 3 proposals, got %d", len(got))
	}
	if got[0] != "garbage" {
		t.Errorf("expected the raw content first, got %q", got[0])
	}
}

func TestSimulatedCaptionsAlwaysYieldsThree(t *testing.T) {
	for _, tone := range []string{"", "playful", "minimalist"} {
		captions := SimulatedCaptions(tone)
		if len(captions) != 3 {
			t.Fatalf("tone %q: expected 3 captions, got %d", tone, len(captions))
		}
		for _, c := range captions {
			if c == "" {
				t.Errorf("tone %q: empty caption", tone)
			}
		}
	}
}

func TestGenerateWithoutKeyReportsConfigurationError(t *testing.T) {
	secrets := store.NewSecretStore(filepath.Join(t.TempDir(), "secrets.json"), "k")
	svc := NewCaptionService(secrets)

	_, err := svc.Generate(context.Background(), "warm", "data:image/jpeg;base64,aGk=")
	if !errors.Is(err, ErrAPIKeyNotConfigured) {
		t.Fatalf("expected ErrAPIKeyNotConfigured, got %v", err)
	}
}

func TestGenerateCallsAPIAndParsesProposals(t *testing.T) {
	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "gpt-4o" || req.MaxTokens != 1000 {
			t.Errorf("unexpected request: %+v", req)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `["cap one", "cap two", "cap three"]`}},
			},
		})
	}))
	defer api.Close()

	secrets := store.NewSecretStore(filepath.Join(t.TempDir(), "secrets.json"), "k")
	if err := secrets.Save(&models.Secrets{APIKey: "sk-test"}); err != nil {
		t.Fatal(err)
	}
	svc := &captionService{
		secrets:  secrets,
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: api.URL,
	}

	captions, err := svc.Generate(context.Background(), "warm", "data:image/jpeg;base64,aGk=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captions) != 3 || captions[0] != "cap one" {
		t.Fatalf("unexpected captions: %v", captions)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("got auth header %q", gotAuth)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "bad key"},
		})
	}))
	defer api.Close()

	secrets := store.NewSecretStore(filepath.Join(t.TempDir(), "secrets.json"), "k")
	if err := secrets.Save(&models.Secrets{APIKey: "sk-test"}); err != nil {
		t.Fatal(err)
	}
	svc := &captionService{
		secrets:  secrets,
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: api.URL,
	}

	_, err := svc.Generate(context.Background(), "warm", "data:image/jpeg;base64,aGk=")
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected the API message in the error, got %v", err)
	}
}
