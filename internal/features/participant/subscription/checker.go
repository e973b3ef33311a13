// Package subscription verifies channel membership for an account: channel
// lookup, bot-token lookup, then a Bot API getChatMember call.
package subscription

import (
	"context"

	apperrors "participant-service/internal/common/errors"
	"participant-service/internal/platform/authsvc"
	"participant-service/internal/platform/channels"
	"participant-service/internal/platform/telegram"
)

// ChannelInfo is the channel summary returned alongside a check.
type ChannelInfo struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Result is the outcome of one subscription check.
type Result struct {
	IsSubscribed     bool
	ChannelInfo      *ChannelInfo
	MembershipStatus string
}

type Checker struct {
	channels *channels.Client
	auth     *authsvc.Client
	telegram *telegram.Client
}

func NewChecker(channelsClient *channels.Client, authClient *authsvc.Client, telegramClient *telegram.Client) *Checker {
	return &Checker{
		channels: channelsClient,
		auth:     authClient,
		telegram: telegramClient,
	}
}

// Verify checks whether userID is subscribed to the channel configured for
// accountID. Dependency failures are returned as typed, retryable errors;
// they never report a definitive "not subscribed".
func (c *Checker) Verify(ctx context.Context, userID, accountID int64) (*Result, error) {
	channel, err := c.channels.GetChannelByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeExternalAPI, "Channel lookup failed for account %d", accountID).
			WithDetail("account_id", accountID)
	}
	if channel == nil {
		return nil, apperrors.New(apperrors.ErrCodeChannelNotFound, "Channel information not found for account").
			WithDetail("account_id", accountID)
	}
	if channel.TelegramID == 0 {
		return nil, apperrors.New(apperrors.ErrCodeChannelNotFound, "Channel Telegram ID not configured").
			WithDetail("account_id", accountID)
	}

	botToken, err := c.auth.GetBotToken(ctx, accountID)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeExternalAPI, "Bot token lookup failed for account %d", accountID).
			WithDetail("account_id", accountID)
	}
	if botToken == "" {
		return nil, apperrors.New(apperrors.ErrCodeBotTokenMissing, "Bot token not found for account").
			WithDetail("account_id", accountID)
	}

	membership, err := c.telegram.CheckChannelMembership(ctx, botToken, channel.TelegramID, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTelegramAPI, "Failed to check channel membership").
			WithDetail("channel_id", channel.TelegramID)
	}

	return &Result{
		IsSubscribed: membership.IsMember,
		ChannelInfo: &ChannelInfo{
			ID:    channel.TelegramID,
			Title: channel.Title,
		},
		MembershipStatus: membership.Status,
	}, nil
}
