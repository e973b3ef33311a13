// Package telegive is the client for the main giveaway service.
package telegive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"participant-service/internal/common/cache"
	"participant-service/internal/common/logger"
	"participant-service/internal/features/participant/models"
)

const giveawayCacheTTL = time.Minute

type Client struct {
	httpClient  *http.Client
	baseURL     string
	serviceName string
	cache       *cache.CacheService
}

// NewClient builds a giveaway-service client. The cache is optional; when
// present, giveaway lookups are cached briefly to keep registration bursts
// from hammering the upstream service.
func NewClient(baseURL, serviceName string, timeout time.Duration, cacheService *cache.CacheService) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		serviceName: serviceName,
		cache:       cacheService,
	}
}

func (c *Client) setServiceHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Name", c.serviceName)
	req.Header.Set("User-Agent", c.serviceName+"/1.0.0")
}

type giveawayEnvelope struct {
	Success  bool                 `json:"success"`
	Giveaway *models.GiveawayInfo `json:"giveaway"`
}

// GetGiveaway fetches a giveaway by id. Returns (nil, nil) when the upstream
// reports the giveaway does not exist.
func (c *Client) GetGiveaway(ctx context.Context, giveawayID int64) (*models.GiveawayInfo, error) {
	cacheKey := fmt.Sprintf("telegive:giveaway:%d", giveawayID)
	if c.cache != nil {
		var cached models.GiveawayInfo
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/api/giveaways/%d", c.baseURL, giveawayID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setServiceHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("giveaway service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("giveaway service returned status %d", resp.StatusCode)
	}

	var body giveawayEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode giveaway response: %w", err)
	}
	if !body.Success || body.Giveaway == nil {
		return nil, nil
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body.Giveaway, giveawayCacheTTL); err != nil {
			logger.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("Failed to cache giveaway")
		}
	}

	return body.Giveaway, nil
}

// IsActive reports whether the giveaway currently accepts registrations.
func (c *Client) IsActive(ctx context.Context, giveawayID int64) (bool, error) {
	giveaway, err := c.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return false, err
	}
	return giveaway.IsActive(), nil
}

// NotifyWinnersSelected tells the giveaway service that a selection run
// finished. Best effort: the selection itself is already committed.
func (c *Client) NotifyWinnersSelected(ctx context.Context, giveawayID int64, winners []models.WinnerDetail) error {
	payload, err := json.Marshal(map[string]interface{}{"winners": winners})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/giveaways/%d/winners-selected", c.baseURL, giveawayID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setServiceHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("winner notification failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("winner notification returned status %d", resp.StatusCode)
	}
	return nil
}
