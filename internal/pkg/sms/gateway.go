package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGatewayURL is the Mobizon send endpoint.
const DefaultGatewayURL = "https://api.mobizon.kz/service/message/sendsmsmessage"

// GatewayConfig configures a form-POST SMS gateway (Mobizon API).
type GatewayConfig struct {
	URL     string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

// Gateway posts messages to an HTTP SMS provider.
type Gateway struct {
	url    string
	apiKey string
	sender string
	client *http.Client
}

type gatewayResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.URL == "" {
		cfg.URL = DefaultGatewayURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Gateway{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send submits one message. A non-zero provider code or a 4xx status is
// wrapped in ErrRejected; transport failures and 5xx are returned as is.
func (g *Gateway) Send(ctx context.Context, to, text string) (string, error) {
	if to == "" {
		return "", ErrNoRecipient
	}

	form := url.Values{
		"apiKey":    {g.apiKey},
		"recipient": {strings.TrimPrefix(to, "+")},
		"text":      {text},
	}
	if g.sender != "" {
		form.Set("from", g.sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("sms: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("sms: gateway status %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var out gatewayResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("sms: parse response: %w", err)
	}
	if out.Code != 0 {
		return "", fmt.Errorf("%w: code %d %s", ErrRejected, out.Code, out.Message)
	}

	return out.Data.MessageID, nil
}

func (g *Gateway) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
