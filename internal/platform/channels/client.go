// Package channels is the client for the channel service, which maps
// accounts to their Telegram channels.
package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	serviceName string
}

// ChannelInfo describes the channel an account requires subscribers for.
type ChannelInfo struct {
	TelegramID int64  `json:"telegram_id"`
	Title      string `json:"title"`
	AccountID  int64  `json:"account_id"`
}

func NewClient(baseURL, serviceName string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		serviceName: serviceName,
	}
}

type channelEnvelope struct {
	Success bool         `json:"success"`
	Channel *ChannelInfo `json:"channel"`
}

func (c *Client) get(ctx context.Context, endpoint string) (*ChannelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Name", c.serviceName)
	req.Header.Set("User-Agent", c.serviceName+"/1.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("channel service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channel service returned status %d", resp.StatusCode)
	}

	var body channelEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode channel response: %w", err)
	}
	if !body.Success {
		return nil, nil
	}
	return body.Channel, nil
}

// GetChannelByAccount returns the channel configured for an account, or nil
// when none exists.
func (c *Client) GetChannelByAccount(ctx context.Context, accountID int64) (*ChannelInfo, error) {
	return c.get(ctx, fmt.Sprintf("%s/api/channels/account/%d", c.baseURL, accountID))
}

// GetChannelByGiveaway returns the channel tied to a giveaway, or nil when
// none exists.
func (c *Client) GetChannelByGiveaway(ctx context.Context, giveawayID int64) (*ChannelInfo, error) {
	return c.get(ctx, fmt.Sprintf("%s/api/channels/giveaway/%d", c.baseURL, giveawayID))
}
