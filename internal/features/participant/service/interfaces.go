package service

import (
	"context"

	"participant-service/internal/features/participant/models"
	"participant-service/internal/features/participant/models/dto"
	"participant-service/internal/features/participant/subscription"
	"participant-service/internal/queue"
)

// GiveawayProvider resolves giveaway metadata from the giveaway service.
// GetGiveaway returns (nil, nil) when the giveaway does not exist.
type GiveawayProvider interface {
	GetGiveaway(ctx context.Context, giveawayID int64) (*models.GiveawayInfo, error)
	NotifyWinnersSelected(ctx context.Context, giveawayID int64, winners []models.WinnerDetail) error
}

// SubscriptionVerifier checks channel membership for a user against the
// channel bound to an account.
type SubscriptionVerifier interface {
	Verify(ctx context.Context, userID, accountID int64) (*subscription.Result, error)
}

// EventPublisher emits domain events after state changes commit.
type EventPublisher interface {
	PublishWinnersSelected(ctx context.Context, event queue.WinnersSelectedEvent) error
}

// ParticipantService is the application boundary consumed by the HTTP layer.
type ParticipantService interface {
	RegisterParticipation(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	ValidateCaptcha(ctx context.Context, req *dto.ValidateCaptchaRequest) (*dto.ValidateCaptchaResponse, error)
	GenerateCaptcha(ctx context.Context, req *dto.GenerateCaptchaRequest) (*dto.GenerateCaptchaResponse, error)
	GetCaptchaStatus(ctx context.Context, userID int64) (*dto.CaptchaStatusResponse, error)
	GetWinnerStatus(ctx context.Context, userID, giveawayID int64) (*dto.WinnerStatusResponse, error)
	GetParticipantCount(ctx context.Context, giveawayID int64) (*dto.CountResponse, error)
	ListParticipants(ctx context.Context, giveawayID int64, page, limit int) (*dto.ListResponse, error)
	SelectWinners(ctx context.Context, giveawayID int64, req *dto.SelectWinnersRequest) (*dto.SelectWinnersResponse, error)
	GetSelectionLogs(ctx context.Context, giveawayID int64) (*dto.SelectionLogsResponse, error)
	UpdateDeliveryStatus(ctx context.Context, req *dto.UpdateDeliveryRequest) (*dto.UpdateDeliveryResponse, error)
	GetUserHistory(ctx context.Context, userID int64) (*dto.HistoryResponse, error)
	VerifySubscription(ctx context.Context, req *dto.VerifySubscriptionRequest) (*dto.VerifySubscriptionResponse, error)
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
