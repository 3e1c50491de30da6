// Package voice provides best-effort spoken feedback. Announcements run off
// the request path; failures are logged and never reach the caller.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Announcer speaks a phrase for a recognized name.
type Announcer interface {
	Announce(ctx context.Context, phrase string) error
}

// TTSClient sends phrases to an external text-to-speech service.
type TTSClient struct {
	url    string
	client *http.Client
}

// NewTTSClient creates a client for the TTS endpoint.
func NewTTSClient(url string) *TTSClient {
	return &TTSClient{
		url:    strings.TrimSuffix(url, "/"),
		client: &http.Client{},
	}
}

// Announce posts the phrase to the TTS service.
func (c *TTSClient) Announce(ctx context.Context, phrase string) error {
	payload, err := json.Marshal(map[string]string{"text": phrase})
	if err != nil {
		return fmt.Errorf("encoding phrase: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling TTS service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TTS error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// Nop is an announcer that does nothing. Used when no TTS URL is
// configured.
type Nop struct{}

// Announce discards the phrase.
func (Nop) Announce(ctx context.Context, phrase string) error {
	return nil
}
