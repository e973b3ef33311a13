package repository

import (
	"context"
	"errors"
	"time"

	"participant-service/internal/features/participant/models"
	"participant-service/internal/features/participant/selection"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyParticipating is returned when the (giveaway, user) unique
	// constraint rejects a duplicate registration.
	ErrAlreadyParticipating = errors.New("user already participated in this giveaway")

	// ErrNoActiveSession is returned when no non-completed captcha session
	// exists for a (user, giveaway) pair.
	ErrNoActiveSession = errors.New("no active captcha session")

	// ErrNoEligibleParticipants is returned when a selection run finds an
	// empty eligible pool.
	ErrNoEligibleParticipants = errors.New("no eligible participants")
)

// SelectionPick runs the sampling algorithm over the eligible pool snapshot
// taken inside the selection transaction. It must be pure.
type SelectionPick func(pool []int64) (*selection.Result, error)

// SelectionOutcome is the committed result of one winner-selection run.
type SelectionOutcome struct {
	Result  *selection.Result
	Winners []models.WinnerDetail
}

// DeliveryOutcome reports per-id results of a delivery-status update.
type DeliveryOutcome struct {
	Updated  int
	NotFound []int64
}

// ParticipantRepository is the persistence boundary of the participant core.
type ParticipantRepository interface {
	// Participants
	GetParticipant(ctx context.Context, giveawayID, userID int64) (*models.Participant, error)
	CreateParticipation(ctx context.Context, p *models.Participant) (int64, error)
	CountByGiveaway(ctx context.Context, giveawayID int64) (int64, error)
	CountWinners(ctx context.Context, giveawayID int64) (int64, error)
	ListByGiveaway(ctx context.Context, giveawayID int64, limit, offset int) ([]models.Participant, error)
	StatsByGiveaway(ctx context.Context, giveawayID int64) (*models.ParticipantStats, error)
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]models.Participant, error)
	UpdateDeliveryStatus(ctx context.Context, participantIDs []int64, delivered bool, ts time.Time) (*DeliveryOutcome, error)

	// User captcha records
	GetUserRecord(ctx context.Context, userID int64) (*models.UserCaptchaRecord, error)

	// Captcha sessions
	CreateCaptchaSession(ctx context.Context, s *models.CaptchaSession) error
	GetActiveCaptchaSession(ctx context.Context, userID, giveawayID int64) (*models.CaptchaSession, error)
	IncrementCaptchaAttempts(ctx context.Context, sessionID int64) (int, error)
	RegenerateCaptchaSession(ctx context.Context, sessionID int64, question string, answer int, expiresAt time.Time) error
	CompleteCaptcha(ctx context.Context, sessionID, userID int64) error
	DeleteExpiredCaptchaSessions(ctx context.Context) (int64, error)
	DeleteStaleCaptchaSessions(ctx context.Context, cutoff time.Time) (int64, error)

	// Winner selection
	SelectWinners(ctx context.Context, giveawayID int64, requestedCount int, pick SelectionPick) (*SelectionOutcome, error)
	GetSelectionLogs(ctx context.Context, giveawayID int64) ([]models.WinnerSelectionLog, error)
}
