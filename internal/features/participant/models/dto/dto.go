package dto

import (
	"time"

	"participant-service/internal/features/participant/models"
)

// RegisterRequest is the body of POST /api/participants/register.
type RegisterRequest struct {
	GiveawayID int64  `json:"giveaway_id" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// RegisterResponse covers both outcomes of a registration attempt: a pending
// captcha challenge or a confirmed participation.
type RegisterResponse struct {
	Success                bool   `json:"success"`
	RequiresCaptcha        bool   `json:"requires_captcha"`
	CaptchaQuestion        string `json:"captcha_question,omitempty"`
	CaptchaSessionID       string `json:"captcha_session_id,omitempty"`
	AttemptsRemaining      int    `json:"attempts_remaining,omitempty"`
	ParticipationConfirmed bool   `json:"participation_confirmed,omitempty"`
	ParticipantID          int64  `json:"participant_id,omitempty"`
}

// ValidateCaptchaRequest is the body of POST /api/participants/validate-captcha.
type ValidateCaptchaRequest struct {
	UserID           int64  `json:"user_id" binding:"required"`
	GiveawayID       int64  `json:"giveaway_id" binding:"required"`
	Answer           string `json:"answer"`
	CaptchaSessionID string `json:"captcha_session_id"`
}

// ValidateCaptchaResponse reports the result of an answer submission.
type ValidateCaptchaResponse struct {
	Success                bool   `json:"success"`
	CaptchaCompleted       bool   `json:"captcha_completed"`
	ParticipationConfirmed bool   `json:"participation_confirmed,omitempty"`
	ParticipantID          int64  `json:"participant_id,omitempty"`
	AttemptsRemaining      int    `json:"attempts_remaining,omitempty"`
	NewQuestion            string `json:"new_question,omitempty"`
	Error                  string `json:"error,omitempty"`
}

// GenerateCaptchaRequest is the body of POST /api/participants/generate-captcha.
type GenerateCaptchaRequest struct {
	UserID     int64 `json:"user_id" binding:"required"`
	GiveawayID int64 `json:"giveaway_id" binding:"required"`
}

// GenerateCaptchaResponse returns a freshly issued captcha challenge.
type GenerateCaptchaResponse struct {
	Success           bool      `json:"success"`
	CaptchaQuestion   string    `json:"captcha_question"`
	CaptchaSessionID  string    `json:"captcha_session_id"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// CaptchaStatusResponse reports the user's global captcha latch and counters.
type CaptchaStatusResponse struct {
	Success             bool       `json:"success"`
	CaptchaCompleted    bool       `json:"captcha_completed"`
	CompletedAt         *time.Time `json:"completed_at"`
	TotalParticipations int        `json:"total_participations"`
	TotalWins           int        `json:"total_wins"`
}

// WinnerStatusResponse reports participation and winner state for one
// (user, giveaway) pair.
type WinnerStatusResponse struct {
	Success          bool       `json:"success"`
	Participated     bool       `json:"participated"`
	IsWinner         bool       `json:"is_winner"`
	TotalWinners     int64      `json:"total_winners"`
	WinnerSelectedAt *time.Time `json:"winner_selected_at,omitempty"`
}

// CountResponse is the participant count for a giveaway.
type CountResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ListResponse is a paginated participant list with aggregate stats.
type ListResponse struct {
	Success      bool                     `json:"success"`
	Participants []models.Participant     `json:"participants"`
	Stats        *models.ParticipantStats `json:"stats"`
	Pagination   Pagination               `json:"pagination"`
}

// SelectWinnersRequest is the body of POST /api/participants/select-winners/:giveaway_id.
type SelectWinnersRequest struct {
	WinnerCount int    `json:"winner_count"`
	UseSeed     bool   `json:"use_seed"`
	CustomSeed  string `json:"custom_seed"`
}

// SelectWinnersResponse reports one completed selection run.
type SelectWinnersResponse struct {
	Success             bool                  `json:"success"`
	Winners             []models.WinnerDetail `json:"winners"`
	TotalParticipants   int                   `json:"total_participants"`
	WinnerCountSelected int                   `json:"winner_count_selected"`
	SelectionMethod     string                `json:"selection_method"`
	SelectionTimestamp  time.Time             `json:"selection_timestamp"`
}

// SelectionLogsResponse is the audit trail of selection runs, newest first.
type SelectionLogsResponse struct {
	Success bool                        `json:"success"`
	Logs    []models.WinnerSelectionLog `json:"logs"`
}

// UpdateDeliveryRequest is the body of PUT /api/participants/update-delivery-status.
type UpdateDeliveryRequest struct {
	ParticipantIDs    []int64 `json:"participant_ids" binding:"required"`
	Delivered         bool    `json:"delivered"`
	DeliveryTimestamp string  `json:"delivery_timestamp"`
}

// FailedUpdate describes one participant whose delivery status could not be
// updated.
type FailedUpdate struct {
	ParticipantID int64  `json:"participant_id"`
	Error         string `json:"error"`
}

// UpdateDeliveryResponse reports per-id outcomes of a delivery update.
type UpdateDeliveryResponse struct {
	Success       bool           `json:"success"`
	UpdatedCount  int            `json:"updated_count"`
	FailedUpdates []FailedUpdate `json:"failed_updates"`
}

// ParticipationSummary is one entry of a user's participation history,
// enriched with giveaway metadata.
type ParticipationSummary struct {
	GiveawayID     int64      `json:"giveaway_id"`
	GiveawayTitle  string     `json:"giveaway_title"`
	GiveawayStatus string     `json:"giveaway_status"`
	ParticipatedAt *time.Time `json:"participated_at"`
	IsWinner       bool       `json:"is_winner"`
}

// HistoryResponse is a user's stats plus recent participations.
type HistoryResponse struct {
	Success              bool                      `json:"success"`
	UserStats            *models.UserCaptchaRecord `json:"user_stats"`
	RecentParticipations []ParticipationSummary    `json:"recent_participations"`
}

// VerifySubscriptionRequest is the body of POST /api/participants/verify-subscription.
type VerifySubscriptionRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	AccountID int64 `json:"account_id" binding:"required"`
}

// VerifySubscriptionResponse reports a standalone subscription check.
type VerifySubscriptionResponse struct {
	Success          bool        `json:"success"`
	IsSubscribed     bool        `json:"is_subscribed"`
	VerifiedAt       *time.Time  `json:"verified_at,omitempty"`
	ChannelInfo      interface{} `json:"channel_info,omitempty"`
	MembershipStatus string      `json:"membership_status,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success   bool                   `json:"success"`
	Error     string                 `json:"error"`
	ErrorCode string                 `json:"error_code"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
