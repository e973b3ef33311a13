package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"participant-service/internal/common/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sendThrough(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	SendError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSendError(t *testing.T) {
	t.Run("duplicate participation is a conflict", func(t *testing.T) {
		status, body := sendThrough(t, errors.New(errors.ErrCodeAlreadyParticipated, "user already participated in this giveaway"))
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, string(errors.ErrCodeAlreadyParticipated), body.ErrorCode)
		assert.False(t, body.Retryable)
	})

	t.Run("transient failures are marked retryable", func(t *testing.T) {
		status, body := sendThrough(t, errors.New(errors.ErrCodeTelegramAPI, "Telegram API unavailable"))
		assert.Equal(t, http.StatusBadGateway, status)
		assert.True(t, body.Retryable)
	})

	t.Run("unknown errors are wrapped as internal", func(t *testing.T) {
		status, body := sendThrough(t, assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, string(errors.ErrCodeInternal), body.ErrorCode)
		assert.True(t, body.Retryable)
	})

	t.Run("expired captcha maps to gone", func(t *testing.T) {
		status, _ := sendThrough(t, errors.New(errors.ErrCodeCaptchaExpired, "Captcha session expired"))
		assert.Equal(t, http.StatusGone, status)
	})
}
