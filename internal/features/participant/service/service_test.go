package service

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"participant-service/internal/common/cache"
	"participant-service/internal/common/config"
	apperrors "participant-service/internal/common/errors"
	"participant-service/internal/features/participant/captcha"
	"participant-service/internal/features/participant/models"
	"participant-service/internal/features/participant/models/dto"
	"participant-service/internal/features/participant/repository"
	"participant-service/internal/features/participant/selection"
	"participant-service/internal/features/participant/subscription"
	"participant-service/internal/queue"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetParticipant(ctx context.Context, giveawayID, userID int64) (*models.Participant, error) {
	args := m.Called(ctx, giveawayID, userID)
	if p := args.Get(0); p != nil {
		return p.(*models.Participant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CreateParticipation(ctx context.Context, p *models.Participant) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) CountByGiveaway(ctx context.Context, giveawayID int64) (int64, error) {
	args := m.Called(ctx, giveawayID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) CountWinners(ctx context.Context, giveawayID int64) (int64, error) {
	args := m.Called(ctx, giveawayID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) ListByGiveaway(ctx context.Context, giveawayID int64, limit, offset int) ([]models.Participant, error) {
	args := m.Called(ctx, giveawayID, limit, offset)
	if p := args.Get(0); p != nil {
		return p.([]models.Participant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) StatsByGiveaway(ctx context.Context, giveawayID int64) (*models.ParticipantStats, error) {
	args := m.Called(ctx, giveawayID)
	if s := args.Get(0); s != nil {
		return s.(*models.ParticipantStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]models.Participant, error) {
	args := m.Called(ctx, userID, limit)
	if p := args.Get(0); p != nil {
		return p.([]models.Participant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) UpdateDeliveryStatus(ctx context.Context, participantIDs []int64, delivered bool, ts time.Time) (*repository.DeliveryOutcome, error) {
	args := m.Called(ctx, participantIDs, delivered, ts)
	if o := args.Get(0); o != nil {
		return o.(*repository.DeliveryOutcome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetUserRecord(ctx context.Context, userID int64) (*models.UserCaptchaRecord, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.(*models.UserCaptchaRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CreateCaptchaSession(ctx context.Context, s *models.CaptchaSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockRepo) GetActiveCaptchaSession(ctx context.Context, userID, giveawayID int64) (*models.CaptchaSession, error) {
	args := m.Called(ctx, userID, giveawayID)
	if s := args.Get(0); s != nil {
		return s.(*models.CaptchaSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) IncrementCaptchaAttempts(ctx context.Context, sessionID int64) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) RegenerateCaptchaSession(ctx context.Context, sessionID int64, question string, answer int, expiresAt time.Time) error {
	args := m.Called(ctx, sessionID, question, answer, expiresAt)
	return args.Error(0)
}

func (m *mockRepo) CompleteCaptcha(ctx context.Context, sessionID, userID int64) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func (m *mockRepo) DeleteExpiredCaptchaSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) DeleteStaleCaptchaSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) SelectWinners(ctx context.Context, giveawayID int64, requestedCount int, pick repository.SelectionPick) (*repository.SelectionOutcome, error) {
	args := m.Called(ctx, giveawayID, requestedCount, pick)
	if o := args.Get(0); o != nil {
		return o.(*repository.SelectionOutcome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetSelectionLogs(ctx context.Context, giveawayID int64) ([]models.WinnerSelectionLog, error) {
	args := m.Called(ctx, giveawayID)
	if l := args.Get(0); l != nil {
		return l.([]models.WinnerSelectionLog), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGiveaways struct {
	mock.Mock
}

func (m *mockGiveaways) GetGiveaway(ctx context.Context, giveawayID int64) (*models.GiveawayInfo, error) {
	args := m.Called(ctx, giveawayID)
	if g := args.Get(0); g != nil {
		return g.(*models.GiveawayInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGiveaways) NotifyWinnersSelected(ctx context.Context, giveawayID int64, winners []models.WinnerDetail) error {
	args := m.Called(ctx, giveawayID, winners)
	return args.Error(0)
}

type mockSubs struct {
	mock.Mock
}

func (m *mockSubs) Verify(ctx context.Context, userID, accountID int64) (*subscription.Result, error) {
	args := m.Called(ctx, userID, accountID)
	if r := args.Get(0); r != nil {
		return r.(*subscription.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishWinnersSelected(ctx context.Context, event queue.WinnersSelectedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fixture struct {
	repo      *mockRepo
	giveaways *mockGiveaways
	subs      *mockSubs
	publisher *mockPublisher
	svc       ParticipantService
	cfg       *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Captcha.MinNumber = 1
	cfg.Captcha.MaxNumber = 10
	cfg.Captcha.MaxAttempts = 3
	cfg.Captcha.TimeoutMinutes = 10
	cfg.Selection.Method = selection.MethodCryptographic
	cfg.Selection.AuditEnabled = true

	// Points at nothing; cache failures degrade to direct reads.
	cacheService := cache.NewCacheService(redislib.NewClient(&redislib.Options{Addr: "127.0.0.1:1"}))

	f := &fixture{
		repo:      &mockRepo{},
		giveaways: &mockGiveaways{},
		subs:      &mockSubs{},
		publisher: &mockPublisher{},
		cfg:       cfg,
	}
	f.svc = NewParticipantService(
		f.repo, f.giveaways, f.subs, f.publisher,
		cacheService,
		captcha.NewGenerator(cfg.Captcha.MinNumber, cfg.Captcha.MaxNumber),
		selection.NewSelector(),
		cfg,
	)
	return f
}

func activeGiveaway() *models.GiveawayInfo {
	return &models.GiveawayInfo{ID: 42, AccountID: 7, Status: "active", Title: "Test Giveaway"}
}

func activeSession(answer int) *models.CaptchaSession {
	return &models.CaptchaSession{
		ID:            11,
		SessionToken:  "8aa6c34e-32ba-4f39-9a5a-9a3adcb0b9d3",
		UserID:        100,
		GiveawayID:    42,
		Question:      "What is 2 + 3?",
		CorrectAnswer: answer,
		Attempts:      0,
		MaxAttempts:   3,
		ExpiresAt:     time.Now().UTC().Add(10 * time.Minute),
	}
}

func TestRegisterParticipation(t *testing.T) {
	ctx := context.Background()

	t.Run("first-time user gets a captcha challenge", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(nil, repository.ErrNoActiveSession)
		f.repo.On("CreateCaptchaSession", mock.Anything, mock.AnythingOfType("*models.CaptchaSession")).Return(nil)

		resp, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100})
		require.NoError(t, err)
		assert.True(t, resp.RequiresCaptcha)
		assert.NotEmpty(t, resp.CaptchaQuestion)
		assert.NotEmpty(t, resp.CaptchaSessionID)
		assert.Equal(t, 3, resp.AttemptsRemaining)
		assert.False(t, resp.ParticipationConfirmed)
		f.repo.AssertNotCalled(t, "CreateParticipation", mock.Anything, mock.Anything)
	})

	t.Run("reuses the existing unexpired session", func(t *testing.T) {
		f := newFixture(t)
		session := activeSession(5)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(session, nil)

		resp, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100})
		require.NoError(t, err)
		assert.Equal(t, session.Question, resp.CaptchaQuestion)
		assert.Equal(t, session.SessionToken, resp.CaptchaSessionID)
		f.repo.AssertNotCalled(t, "CreateCaptchaSession", mock.Anything, mock.Anything)
	})

	t.Run("rejects a duplicate registration", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(&models.Participant{ID: 1}, nil)

		_, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeAlreadyParticipated, appErr.Code)
	})

	t.Run("rejects a missing giveaway", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(nil, nil)

		_, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeGiveawayNotFound, appErr.Code)
	})

	t.Run("rejects an inactive giveaway", func(t *testing.T) {
		f := newFixture(t)
		g := activeGiveaway()
		g.Status = "finished"
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(g, nil)

		_, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeGiveawayNotActive, appErr.Code)
	})

	t.Run("verified user is committed without a new captcha", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(&models.UserCaptchaRecord{UserID: 100, CaptchaCompleted: true}, nil)
		f.subs.On("Verify", mock.Anything, int64(100), int64(7)).Return(&subscription.Result{IsSubscribed: true, MembershipStatus: "member"}, nil)
		f.repo.On("CreateParticipation", mock.Anything, mock.AnythingOfType("*models.Participant")).Return(int64(555), nil)

		resp, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100, Username: "@john_doe"})
		require.NoError(t, err)
		assert.False(t, resp.RequiresCaptcha)
		assert.True(t, resp.ParticipationConfirmed)
		assert.Equal(t, int64(555), resp.ParticipantID)
		f.repo.AssertNotCalled(t, "GetActiveCaptchaSession", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("constraint violation on commit maps to already-participated", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(&models.UserCaptchaRecord{UserID: 100, CaptchaCompleted: true}, nil)
		f.subs.On("Verify", mock.Anything, int64(100), int64(7)).Return(&subscription.Result{IsSubscribed: true, MembershipStatus: "member"}, nil)
		f.repo.On("CreateParticipation", mock.Anything, mock.AnythingOfType("*models.Participant")).Return(int64(0), repository.ErrAlreadyParticipating)

		_, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeAlreadyParticipated, appErr.Code)
	})

	t.Run("unsubscribed user is rejected and not committed", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(&models.UserCaptchaRecord{UserID: 100, CaptchaCompleted: true}, nil)
		f.subs.On("Verify", mock.Anything, int64(100), int64(7)).Return(&subscription.Result{IsSubscribed: false, MembershipStatus: "left"}, nil)

		_, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 100})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotSubscribed, appErr.Code)
		f.repo.AssertNotCalled(t, "CreateParticipation", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RegisterParticipation(ctx, &dto.RegisterRequest{GiveawayID: 42, UserID: 0})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	})
}

func TestValidateCaptcha(t *testing.T) {
	ctx := context.Background()

	t.Run("correct answer completes captcha and confirms participation", func(t *testing.T) {
		f := newFixture(t)
		session := activeSession(5)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(session, nil)
		f.repo.On("IncrementCaptchaAttempts", mock.Anything, int64(11)).Return(1, nil)
		f.repo.On("CompleteCaptcha", mock.Anything, int64(11), int64(100)).Return(nil)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.subs.On("Verify", mock.Anything, int64(100), int64(7)).Return(&subscription.Result{IsSubscribed: true, MembershipStatus: "member"}, nil)
		f.repo.On("CreateParticipation", mock.Anything, mock.AnythingOfType("*models.Participant")).Return(int64(777), nil)

		resp, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{UserID: 100, GiveawayID: 42, Answer: "5"})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.True(t, resp.CaptchaCompleted)
		assert.True(t, resp.ParticipationConfirmed)
		assert.Equal(t, int64(777), resp.ParticipantID)
	})

	t.Run("captcha stays completed when subscription fails afterwards", func(t *testing.T) {
		f := newFixture(t)
		session := activeSession(5)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(session, nil)
		f.repo.On("IncrementCaptchaAttempts", mock.Anything, int64(11)).Return(1, nil)
		f.repo.On("CompleteCaptcha", mock.Anything, int64(11), int64(100)).Return(nil)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.subs.On("Verify", mock.Anything, int64(100), int64(7)).Return(&subscription.Result{IsSubscribed: false, MembershipStatus: "left"}, nil)

		_, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{UserID: 100, GiveawayID: 42, Answer: "5"})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotSubscribed, appErr.Code)
		f.repo.AssertCalled(t, "CompleteCaptcha", mock.Anything, int64(11), int64(100))
	})

	t.Run("wrong answer reports remaining attempts", func(t *testing.T) {
		f := newFixture(t)
		session := activeSession(5)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(session, nil)
		f.repo.On("IncrementCaptchaAttempts", mock.Anything, int64(11)).Return(1, nil)

		resp, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{UserID: 100, GiveawayID: 42, Answer: "9"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 2, resp.AttemptsRemaining)
		assert.Empty(t, resp.NewQuestion)
		f.repo.AssertNotCalled(t, "CompleteCaptcha", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("exhausted attempts regenerate the question", func(t *testing.T) {
		f := newFixture(t)
		session := activeSession(5)
		session.Attempts = 2
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(session, nil)
		f.repo.On("IncrementCaptchaAttempts", mock.Anything, int64(11)).Return(3, nil)
		f.repo.On("RegenerateCaptchaSession", mock.Anything, int64(11), mock.AnythingOfType("string"), mock.AnythingOfType("int"), mock.AnythingOfType("time.Time")).Return(nil)

		resp, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{UserID: 100, GiveawayID: 42, Answer: "9"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 3, resp.AttemptsRemaining)
		assert.NotEmpty(t, resp.NewQuestion)
	})

	t.Run("session with no attempts left is regenerated before counting", func(t *testing.T) {
		f := newFixture(t)
		session := activeSession(5)
		session.Attempts = 3
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(session, nil)
		f.repo.On("RegenerateCaptchaSession", mock.Anything, int64(11), mock.AnythingOfType("string"), mock.AnythingOfType("int"), mock.AnythingOfType("time.Time")).Return(nil)

		resp, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{UserID: 100, GiveawayID: 42, Answer: "5"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 3, resp.AttemptsRemaining)
		assert.NotEmpty(t, resp.NewQuestion)
		f.repo.AssertNotCalled(t, "IncrementCaptchaAttempts", mock.Anything, mock.Anything)
	})

	t.Run("expired session is regenerated with a typed error", func(t *testing.T) {
		f := newFixture(t)
		session := activeSession(5)
		session.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(session, nil)
		f.repo.On("RegenerateCaptchaSession", mock.Anything, int64(11), mock.AnythingOfType("string"), mock.AnythingOfType("int"), mock.AnythingOfType("time.Time")).Return(nil)

		_, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{UserID: 100, GiveawayID: 42, Answer: "5"})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeCaptchaExpired, appErr.Code)
		assert.NotEmpty(t, appErr.Details["new_question"])
		f.repo.AssertNotCalled(t, "IncrementCaptchaAttempts", mock.Anything, mock.Anything)
	})

	t.Run("no active session", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(nil, repository.ErrNoActiveSession)

		_, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{UserID: 100, GiveawayID: 42, Answer: "5"})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeCaptchaSessionNotFound, appErr.Code)
	})

	t.Run("mismatched session token", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(activeSession(5), nil)

		_, err := f.svc.ValidateCaptcha(ctx, &dto.ValidateCaptchaRequest{
			UserID: 100, GiveawayID: 42, Answer: "5", CaptchaSessionID: "some-other-token",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeCaptchaSessionNotFound, appErr.Code)
	})
}

func TestGenerateCaptcha(t *testing.T) {
	ctx := context.Background()

	t.Run("latched user cannot request another challenge", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(&models.UserCaptchaRecord{UserID: 100, CaptchaCompleted: true}, nil)

		_, err := f.svc.GenerateCaptcha(ctx, &dto.GenerateCaptchaRequest{UserID: 100, GiveawayID: 42})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeCaptchaAlreadyCompleted, appErr.Code)
	})

	t.Run("issues a challenge for a new user", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(nil, repository.ErrNotFound)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("GetActiveCaptchaSession", mock.Anything, int64(100), int64(42)).Return(nil, repository.ErrNoActiveSession)
		f.repo.On("CreateCaptchaSession", mock.Anything, mock.AnythingOfType("*models.CaptchaSession")).Return(nil)

		resp, err := f.svc.GenerateCaptcha(ctx, &dto.GenerateCaptchaRequest{UserID: 100, GiveawayID: 42})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.CaptchaQuestion)
		assert.NotEmpty(t, resp.CaptchaSessionID)
		assert.Equal(t, 3, resp.AttemptsRemaining)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
	})
}

func TestSelectWinners(t *testing.T) {
	ctx := context.Background()

	t.Run("empty pool maps to a typed error", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("SelectWinners", mock.Anything, int64(42), 3, mock.Anything).Return(nil, repository.ErrNoEligibleParticipants)

		_, err := f.svc.SelectWinners(ctx, 42, &dto.SelectWinnersRequest{WinnerCount: 3})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInsufficientParticipants, appErr.Code)
	})

	t.Run("committed run notifies and publishes", func(t *testing.T) {
		f := newFixture(t)
		result := &selection.Result{
			Winners:            []int64{100, 200},
			TotalParticipants:  5,
			WinnerCountReq:     2,
			WinnerCountSel:     2,
			Method:             selection.MethodCryptographic,
			SelectionTimestamp: time.Now().UTC(),
		}
		outcome := &repository.SelectionOutcome{
			Result: result,
			Winners: []models.WinnerDetail{
				{UserID: 100, ParticipantID: 1},
				{UserID: 200, ParticipantID: 2},
			},
		}
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("SelectWinners", mock.Anything, int64(42), 2, mock.Anything).Return(outcome, nil)
		f.giveaways.On("NotifyWinnersSelected", mock.Anything, int64(42), outcome.Winners).Return(nil)
		f.publisher.On("PublishWinnersSelected", mock.Anything, mock.AnythingOfType("queue.WinnersSelectedEvent")).Return(nil)

		resp, err := f.svc.SelectWinners(ctx, 42, &dto.SelectWinnersRequest{WinnerCount: 2})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Len(t, resp.Winners, 2)
		assert.Equal(t, 5, resp.TotalParticipants)
		assert.Equal(t, selection.MethodCryptographic, resp.SelectionMethod)
		f.publisher.AssertCalled(t, "PublishWinnersSelected", mock.Anything, mock.AnythingOfType("queue.WinnersSelectedEvent"))
	})

	t.Run("pick callback runs the selector over the pool", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)

		var captured repository.SelectionPick
		f.repo.On("SelectWinners", mock.Anything, int64(42), 2, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(3).(repository.SelectionPick)
			}).
			Return(nil, repository.ErrNoEligibleParticipants)

		_, _ = f.svc.SelectWinners(ctx, 42, &dto.SelectWinnersRequest{WinnerCount: 2})
		require.NotNil(t, captured)

		result, err := captured([]int64{10, 20, 30, 40})
		require.NoError(t, err)
		assert.Len(t, result.Winners, 2)
		assert.Equal(t, 4, result.TotalParticipants)
		assert.Equal(t, selection.MethodCryptographic, result.Method)
	})

	t.Run("custom seed forces deterministic selection", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)

		var captured repository.SelectionPick
		f.repo.On("SelectWinners", mock.Anything, int64(42), 2, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(3).(repository.SelectionPick)
			}).
			Return(nil, repository.ErrNoEligibleParticipants)

		_, _ = f.svc.SelectWinners(ctx, 42, &dto.SelectWinnersRequest{WinnerCount: 2, UseSeed: true, CustomSeed: "fixed"})
		require.NotNil(t, captured)

		first, err := captured([]int64{10, 20, 30, 40})
		require.NoError(t, err)
		second, err := captured([]int64{10, 20, 30, 40})
		require.NoError(t, err)
		assert.Equal(t, selection.MethodDeterministic, first.Method)
		assert.Equal(t, first.Winners, second.Winners)
	})

	t.Run("omitted winner count defaults to one", func(t *testing.T) {
		f := newFixture(t)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.repo.On("SelectWinners", mock.Anything, int64(42), 1, mock.Anything).Return(nil, repository.ErrNoEligibleParticipants)

		_, err := f.svc.SelectWinners(ctx, 42, &dto.SelectWinnersRequest{})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInsufficientParticipants, appErr.Code)
		f.repo.AssertCalled(t, "SelectWinners", mock.Anything, int64(42), 1, mock.Anything)
	})

	t.Run("rejects an out-of-range winner count", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SelectWinners(ctx, 42, &dto.SelectWinnersRequest{WinnerCount: 2000})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	})
}

func TestGetSelectionLogs(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.repo.On("GetSelectionLogs", mock.Anything, int64(42)).Return([]models.WinnerSelectionLog{
		{GiveawayID: 42, TotalParticipants: 5, WinnerCountSel: 2, SelectionMethod: selection.MethodCryptographic},
	}, nil)

	resp, err := f.svc.GetSelectionLogs(ctx, 42)
	require.NoError(t, err)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, int64(42), resp.Logs[0].GiveawayID)
}

func TestUpdateDeliveryStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("reports per-id outcomes", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("UpdateDeliveryStatus", mock.Anything, []int64{1, 2, 3}, true, mock.AnythingOfType("time.Time")).
			Return(&repository.DeliveryOutcome{Updated: 2, NotFound: []int64{3}}, nil)

		resp, err := f.svc.UpdateDeliveryStatus(ctx, &dto.UpdateDeliveryRequest{
			ParticipantIDs: []int64{1, 2, 3},
			Delivered:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.UpdatedCount)
		require.Len(t, resp.FailedUpdates, 1)
		assert.Equal(t, int64(3), resp.FailedUpdates[0].ParticipantID)
	})

	t.Run("rejects a malformed timestamp", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateDeliveryStatus(ctx, &dto.UpdateDeliveryRequest{
			ParticipantIDs:    []int64{1},
			DeliveryTimestamp: "yesterday",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateDeliveryStatus(ctx, &dto.UpdateDeliveryRequest{})
		assert.Error(t, err)
	})
}

func TestGetUserHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user gets zeroed stats", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(nil, repository.ErrNotFound)
		f.repo.On("ListRecentByUser", mock.Anything, int64(100), 10).Return([]models.Participant{}, nil)

		resp, err := f.svc.GetUserHistory(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), resp.UserStats.UserID)
		assert.False(t, resp.UserStats.CaptchaCompleted)
		assert.Empty(t, resp.RecentParticipations)
	})

	t.Run("enriches entries with giveaway metadata", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetUserRecord", mock.Anything, int64(100)).Return(&models.UserCaptchaRecord{UserID: 100, CaptchaCompleted: true}, nil)
		f.repo.On("ListRecentByUser", mock.Anything, int64(100), 10).Return([]models.Participant{
			{GiveawayID: 42, UserID: 100, IsWinner: true, ParticipatedAt: time.Now().UTC()},
			{GiveawayID: 43, UserID: 100, ParticipatedAt: time.Now().UTC()},
		}, nil)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(42)).Return(activeGiveaway(), nil)
		f.giveaways.On("GetGiveaway", mock.Anything, int64(43)).Return(nil, assert.AnError)

		resp, err := f.svc.GetUserHistory(ctx, 100)
		require.NoError(t, err)
		require.Len(t, resp.RecentParticipations, 2)
		assert.Equal(t, "Test Giveaway", resp.RecentParticipations[0].GiveawayTitle)
		assert.True(t, resp.RecentParticipations[0].IsWinner)
		assert.Equal(t, "Unknown Giveaway", resp.RecentParticipations[1].GiveawayTitle)
		assert.Equal(t, "unknown", resp.RecentParticipations[1].GiveawayStatus)
	})
}

func TestGetWinnerStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("non-participant", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("CountWinners", mock.Anything, int64(42)).Return(int64(3), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(nil, repository.ErrNotFound)

		resp, err := f.svc.GetWinnerStatus(ctx, 100, 42)
		require.NoError(t, err)
		assert.False(t, resp.Participated)
		assert.False(t, resp.IsWinner)
		assert.Equal(t, int64(3), resp.TotalWinners)
	})

	t.Run("winner", func(t *testing.T) {
		f := newFixture(t)
		selectedAt := time.Now().UTC()
		f.repo.On("CountWinners", mock.Anything, int64(42)).Return(int64(3), nil)
		f.repo.On("GetParticipant", mock.Anything, int64(42), int64(100)).Return(&models.Participant{
			GiveawayID: 42, UserID: 100, IsWinner: true, WinnerSelectedAt: &selectedAt,
		}, nil)

		resp, err := f.svc.GetWinnerStatus(ctx, 100, 42)
		require.NoError(t, err)
		assert.True(t, resp.Participated)
		assert.True(t, resp.IsWinner)
		require.NotNil(t, resp.WinnerSelectedAt)
	})
}
