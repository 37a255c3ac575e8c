package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramPublisher posts rate summaries to a Telegram channel through the
// Bot API sendMessage call.
type TelegramPublisher struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramPublisher creates a publisher for the given bot and chat.
func NewTelegramPublisher(botToken, chatID string) *TelegramPublisher {
	return &TelegramPublisher{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies the platform in audit entries.
func (p *TelegramPublisher) Name() string {
	return "telegram"
}

// Publish posts the message and returns Telegram's message ID.
func (p *TelegramPublisher) Publish(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"chat_id": p.chatID,
		"text":    message,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", p.baseURL, p.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if !parsed.OK {
		return "", fmt.Errorf("telegram rejected the message: %s", parsed.Description)
	}
	return strconv.FormatInt(parsed.Result.MessageID, 10), nil
}

var _ portssvc.SocialPublisher = (*TelegramPublisher)(nil)
