package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maheshrc27/instaflow/internal/store"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

var ErrAPIKeyNotConfigured = errors.New("OpenAI API key is not configured")

type CaptionService interface {
	Generate(ctx context.Context, tone, imageData string) ([]string, error)
}

type captionService struct {
	secrets  *store.SecretStore
	client   *http.Client
	endpoint string
}

func NewCaptionService(secrets *store.SecretStore) CaptionService {
	return &captionService{
		secrets:  secrets,
		client:   &http.Client{Timeout: 2 * time.Minute},
		endpoint: openAIEndpoint,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatContent struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the captioning model for three proposals matching the tone,
// with the post image attached. The server-held key never reaches the client.
func (s *captionService) Generate(ctx context.Context, tone, imageData string) ([]string, error) {
	if tone == "" {
		tone = "neutral"
	}

	sec, err := s.secrets.Load()
	if err != nil {
		return nil, err
	}
	if sec.APIKey == "" || !strings.HasPrefix(sec.APIKey, "sk-") {
		return nil, ErrAPIKeyNotConfigured
	}

	reqBody := chatRequest{
		Model:     "gpt-4o",
		MaxTokens: 1000,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContent{
				{Type: "text", Text: captionPrompt(tone)},
				{Type: "image_url", ImageURL: &imageURL{URL: imageData}},
			},
		}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sec.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("caption request failed", "error", err)
		return nil, fmt.Errorf("calling captioning API: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding captioning response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown API error"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("captioning API: %s", msg)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("captioning API returned no choices")
	}

	return parseProposals(parsed.Choices[0].Message.Content), nil
}

func captionPrompt(tone string) string {
	return fmt.Sprintf(`You are an expert Instagram community manager. Analyse this image and write 3 complete caption proposals.

STYLE AND FORMATTING INSTRUCTIONS (FOLLOW STRICTLY):
"""
%s
"""

IMPORTANT:
1. If line breaks are requested (e.g. "blank line before hashtags"), you MUST insert "\n" characters inside the JSON string.
2. Hashtags must be included INSIDE the string.

OUTPUT FORMAT: a JSON array of 3 strings. Valid example: ["Caption...\n\n#tag1", "Caption...", "Caption..."].`, tone)
}

// parseProposals turns a model answer into exactly three captions, working
// through the fallback ladder: strip code fences, extract the bracketed
// span, parse as JSON (padding short arrays), then split raw text by line,
// and finally hand back the raw content with placeholders.
func parseProposals(content string) []string {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	first := strings.Index(cleaned, "[")
	last := strings.LastIndex(cleaned, "]")
	if first != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}

	var proposals []string
	if err := json.Unmarshal([]byte(cleaned), &proposals); err == nil {
		for len(proposals) < 3 {
			proposals = append(proposals, "...")
		}
		return proposals[:3]
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 {
			lines = append(lines, line)
		}
	}
	if len(lines) >= 3 {
		return lines[:3]
	}

	return []string{
		content,
		"The model did not return a JSON array.",
		"Unexpected response format.",
	}
}

// SimulatedCaptions is the no-key fallback: tone-templated placeholders so
// the wizard stays usable without a configured API key.
func SimulatedCaptions(tone string) []string {
	if tone == "" {
		tone = "neutral"
	}
	capitalized := strings.ToUpper(tone[:1]) + tone[1:]
	return []string{
		fmt.Sprintf("🌿 New %s creation. Handmade with passion. Available now. #handmade #%s", tone, tone),
		fmt.Sprintf("Behind every piece, hours of careful work. That is %s craftsmanship. ✨", tone),
		fmt.Sprintf("%s and authentic. That is our signature. Discover our latest creation. 🔨", capitalized),
	}
}
