package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/google/uuid"
)

// WebhookPublisher posts rate summaries to a generic HTTP endpoint. It
// fronts the platforms without a first-class integration (a relay service
// forwards to Facebook, Instagram and WhatsApp).
type WebhookPublisher struct {
	name   string
	url    string
	client *http.Client
}

// NewWebhookPublisher creates a publisher posting to the given URL.
func NewWebhookPublisher(name, url string) *WebhookPublisher {
	return &WebhookPublisher{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies the platform in audit entries.
func (p *WebhookPublisher) Name() string {
	return p.name
}

// Publish posts the message; a generated ID stands in for platforms that
// do not return one.
func (p *WebhookPublisher) Publish(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return "", fmt.Errorf("failed to encode webhook request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return uuid.NewString(), nil
}

var _ portssvc.SocialPublisher = (*WebhookPublisher)(nil)
