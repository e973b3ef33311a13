// Package authsvc is the client for the auth service, which owns per-account
// bot tokens.
package authsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	httpClient   *http.Client
	baseURL      string
	serviceName  string
	serviceToken string
}

func NewClient(baseURL, serviceName, serviceToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		serviceName:  serviceName,
		serviceToken: serviceToken,
	}
}

type botTokenEnvelope struct {
	Success  bool   `json:"success"`
	BotToken string `json:"bot_token"`
}

// GetBotToken fetches the bot token for an account. Returns "" when the
// account has no token configured.
func (c *Client) GetBotToken(ctx context.Context, accountID int64) (string, error) {
	endpoint := fmt.Sprintf("%s/api/auth/bot-token/%d", c.baseURL, accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Name", c.serviceName)
	req.Header.Set("X-Service-Token", c.serviceToken)
	req.Header.Set("User-Agent", c.serviceName+"/1.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var body botTokenEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if !body.Success {
		return "", nil
	}
	return body.BotToken, nil
}
