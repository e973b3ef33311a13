package models

import "time"

// CaptchaSession is one issued math challenge, scoped to (user, giveaway).
// At most one active session exists per pair; exhausted or expired sessions
// are superseded with a fresh question rather than blocking the user.
type CaptchaSession struct {
	ID            int64     `json:"id"`
	SessionToken  string    `json:"session_token"`
	UserID        int64     `json:"user_id"`
	GiveawayID    int64     `json:"giveaway_id"`
	Question      string    `json:"question"`
	CorrectAnswer int       `json:"-"`
	Attempts      int       `json:"attempts"`
	MaxAttempts   int       `json:"max_attempts"`
	Completed     bool      `json:"completed"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsExpired reports whether the challenge window has passed.
func (s *CaptchaSession) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// CanAttempt reports whether another answer may be submitted.
func (s *CaptchaSession) CanAttempt() bool {
	return !s.Completed && s.Attempts < s.MaxAttempts && !s.IsExpired()
}

// AttemptsRemaining returns how many answers are left before the question
// is regenerated.
func (s *CaptchaSession) AttemptsRemaining() int {
	remaining := s.MaxAttempts - s.Attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}
