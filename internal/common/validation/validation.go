// Package validation holds the input checks shared by the HTTP layer and
// the services. All failures are typed validation errors so they map to
// HTTP 400.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"participant-service/internal/common/errors"
)

const (
	MinUserID     = 1
	MaxUserID     = math.MaxInt64
	MinGiveawayID = 1

	MaxNameLength  = 100
	MaxWinnerCount = 1000
)

// Telegram usernames: 5-32 characters, letters, digits and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{5,32}$`)

// UserID validates a Telegram user identifier.
func UserID(id int64) error {
	if id < MinUserID {
		return errors.NewValidationError("user_id", fmt.Sprintf("must be at least %d", MinUserID))
	}
	return nil
}

// GiveawayID validates a giveaway identifier.
func GiveawayID(id int64) error {
	if id < MinGiveawayID {
		return errors.NewValidationError("giveaway_id", fmt.Sprintf("must be at least %d", MinGiveawayID))
	}
	return nil
}

// WinnerCount validates the requested number of winners.
func WinnerCount(count int) error {
	if count < 1 {
		return errors.NewValidationError("winner_count", "must be at least 1")
	}
	if count > MaxWinnerCount {
		return errors.NewValidationError("winner_count", fmt.Sprintf("cannot exceed %d", MaxWinnerCount))
	}
	return nil
}

// Username normalizes and validates an optional Telegram username.
// An empty value is allowed and normalizes to "".
func Username(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", nil
	}
	username = strings.TrimPrefix(username, "@")
	if !usernameRegex.MatchString(username) {
		return "", errors.NewValidationError("username", "must be 5-32 characters, alphanumeric and underscores only")
	}
	return username, nil
}

// Name normalizes and validates an optional first or last name.
func Name(name, field string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	if len(name) > MaxNameLength {
		return "", errors.NewValidationError(field, fmt.Sprintf("must be %d characters or less", MaxNameLength))
	}
	return name, nil
}

// ParseID parses a positive int64 from a path parameter.
func ParseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.NewValidationError(field, "must be a valid integer")
	}
	if id < 1 {
		return 0, errors.NewValidationError(field, "must be positive")
	}
	return id, nil
}

// BindError wraps a request-body binding failure as a validation error.
func BindError(err error) error {
	return errors.Wrap(err, errors.ErrCodeValidation, "invalid request body")
}

// Pagination clamps page/limit query values to sane bounds.
func Pagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
