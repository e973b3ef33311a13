package models

import "time"

// Participant is one (giveaway, user) participation row. Rows are never
// deleted; they form the audit trail for winner selection and delivery.
type Participant struct {
	ID         int64  `json:"id"`
	GiveawayID int64  `json:"giveaway_id"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`

	ParticipatedAt         time.Time  `json:"participated_at"`
	CaptchaCompleted       bool       `json:"captcha_completed"`
	SubscriptionVerified   bool       `json:"subscription_verified"`
	SubscriptionVerifiedAt *time.Time `json:"subscription_verified_at,omitempty"`

	IsWinner         bool       `json:"is_winner"`
	WinnerSelectedAt *time.Time `json:"winner_selected_at,omitempty"`

	MessageDelivered  bool       `json:"message_delivered"`
	DeliveryTimestamp *time.Time `json:"delivery_timestamp,omitempty"`
	DeliveryAttempts  int        `json:"delivery_attempts"`
}

// UserCaptchaRecord is the per-user global record. CaptchaCompleted is a
// one-way latch: once true it is never reset, for any future giveaway.
type UserCaptchaRecord struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	CaptchaCompleted     bool       `json:"captcha_completed"`
	CaptchaCompletedAt   *time.Time `json:"captcha_completed_at,omitempty"`
	FirstParticipationAt time.Time  `json:"first_participation_at"`
	TotalParticipations  int        `json:"total_participations"`
	TotalWins            int        `json:"total_wins"`
	LastParticipationAt  time.Time  `json:"last_participation_at"`
}

// ParticipantStats aggregates counts for a giveaway's participant list.
type ParticipantStats struct {
	Total                int64 `json:"total"`
	CaptchaCompleted     int64 `json:"captcha_completed"`
	SubscriptionVerified int64 `json:"subscription_verified"`
	Winners              int64 `json:"winners"`
}

// GiveawayInfo is the projection of a giveaway returned by the giveaway
// service; only the fields this service consumes.
type GiveawayInfo struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Status    string `json:"status"`
	Title     string `json:"title"`
}

// IsActive reports whether the giveaway currently accepts registrations.
func (g *GiveawayInfo) IsActive() bool {
	return g != nil && g.Status == "active"
}

// WinnerDetail is the per-winner payload sent to the giveaway service and
// returned from a selection run.
type WinnerDetail struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	ParticipantID int64  `json:"participant_id"`
}
