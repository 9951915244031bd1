package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultBotAPIURL is the public bot API endpoint.
const DefaultBotAPIURL = "https://api.telegram.org"

// ErrDispatchFailed is returned when the bot API rejects or drops a message.
var ErrDispatchFailed = errors.New("notification dispatch failed")

// BotClient sends messages to one chat through the bot HTTP API.
type BotClient struct {
	client  *fasthttp.Client
	baseURL string
	token   string
	chatID  string
	timeout time.Duration
}

// NewBotClient creates a bot client. An empty baseURL selects DefaultBotAPIURL.
func NewBotClient(baseURL, token, chatID string, timeout time.Duration) *BotClient {
	if baseURL == "" {
		baseURL = DefaultBotAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BotClient{
		client: &fasthttp.Client{
			Name:         "footwear-wholesale-notify",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		timeout: timeout,
	}
}

// Enabled reports whether a credential and recipient are configured.
func (b *BotClient) Enabled() bool {
	return b.token != "" && b.chatID != ""
}

// SendMessage posts a text message.
func (b *BotClient) SendMessage(ctx context.Context, text string) error {
	return b.call(ctx, "sendMessage", map[string]any{
		"chat_id": b.chatID,
		"text":    text,
	})
}

// SendPhoto posts a photo by URL with an optional caption.
func (b *BotClient) SendPhoto(ctx context.Context, photoURL, caption string) error {
	payload := map[string]any{
		"chat_id": b.chatID,
		"photo":   photoURL,
	}
	if caption != "" {
		payload["caption"] = caption
	}
	return b.call(ctx, "sendPhoto", payload)
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (b *BotClient) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(b.baseURL + "/bot" + b.token + "/" + method)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := b.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDispatchFailed, method, err)
	}

	var parsed botResponse
	_ = json.Unmarshal(resp.Body(), &parsed)
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 || !parsed.OK {
		return fmt.Errorf("%w: %s: status %d: %s", ErrDispatchFailed, method, resp.StatusCode(), parsed.Description)
	}
	return nil
}
