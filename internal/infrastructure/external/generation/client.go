// Package generation is the summary/highlight black box: prompt in, text
// out. Failures are recoverable; records are persisted with empty fields
// and a pending-retry marker instead of crashing assembly.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/pkg/config"
)

// transcriptPlaceholder is the named placeholder prompt templates use for
// the transcript body.
const transcriptPlaceholder = "{{transcript}}"

// Client is a minimal client for the Gemini generateContent API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates a generation client using values from the provided
// config.
func NewClient(cfg *config.GenerationConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate expands the prompt template with the transcript and returns the
// model's text.
func (c *Client) Generate(ctx context.Context, promptTemplate, transcript string) (string, error) {
	prompt := strings.ReplaceAll(promptTemplate, transcriptPlaceholder, transcript)
	if !strings.Contains(promptTemplate, transcriptPlaceholder) {
		// Templates without the placeholder get the transcript appended,
		// matching how untemplated prompts behaved before.
		prompt = prompt + "\n\n" + transcript
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.ErrGenerationService(err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", apperrors.ErrGenerationService(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.ErrGenerationService(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", apperrors.ErrGenerationService(fmt.Errorf("generation service returned status %d", resp.StatusCode))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", apperrors.ErrGenerationService(err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.ErrGenerationService(fmt.Errorf("empty response from generation service"))
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// ParseHighlights splits a generated highlight response into one string per
// highlight, stripping list markers the model tends to emit.
func ParseHighlights(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		// Numbered lists: "1. point"
		if i := strings.IndexByte(line, '.'); i > 0 && i <= 3 && isDigits(line[:i]) {
			line = strings.TrimSpace(line[i+1:])
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
