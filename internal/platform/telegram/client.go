// Package telegram is a minimal Bot API client used for channel membership
// checks. Tokens are supplied per call because each giveaway account owns
// its own bot.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	httpClient *http.Client
	apiBase    string
}

// ChatMember is the subset of getChatMember's result this service consumes.
type ChatMember struct {
	Status string `json:"status"`
}

type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

// MembershipResult reports a single membership check.
type MembershipResult struct {
	IsMember bool
	Status   string
}

func NewClient(apiBase string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiBase:    apiBase,
	}
}

// CheckChannelMembership asks the Bot API whether userID belongs to the
// channel. Member, administrator and creator statuses count as subscribed.
func (c *Client) CheckChannelMembership(ctx context.Context, botToken string, channelID, userID int64) (*MembershipResult, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getChatMember", c.apiBase, botToken)

	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(channelID, 10))
	params.Set("user_id", strconv.FormatInt(userID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode telegram response: %w", err)
	}

	if !body.Ok {
		return nil, fmt.Errorf("telegram API error: %s", body.Description)
	}

	var member ChatMember
	if err := json.Unmarshal(body.Result, &member); err != nil {
		return nil, fmt.Errorf("failed to decode chat member: %w", err)
	}

	status := member.Status
	if status == "" {
		status = "left"
	}

	return &MembershipResult{
		IsMember: status == "member" || status == "administrator" || status == "creator",
		Status:   status,
	}, nil
}
