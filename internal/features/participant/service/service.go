// Package service implements the participation workflows: registration with
// the captcha gate and subscription check, captcha lifecycle, winner
// selection, delivery tracking and read endpoints.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"participant-service/internal/common/cache"
	"participant-service/internal/common/config"
	apperrors "participant-service/internal/common/errors"
	"participant-service/internal/common/logger"
	"participant-service/internal/common/validation"
	"participant-service/internal/features/participant/captcha"
	"participant-service/internal/features/participant/models"
	"participant-service/internal/features/participant/models/dto"
	"participant-service/internal/features/participant/repository"
	"participant-service/internal/features/participant/selection"
	"participant-service/internal/queue"
)

const (
	countCacheTTL      = 30 * time.Second
	countCacheKeyFmt   = "participants:count:%d"
	historyRecentLimit = 10
)

type participantService struct {
	repo      repository.ParticipantRepository
	giveaways GiveawayProvider
	subs      SubscriptionVerifier
	publisher EventPublisher
	cache     *cache.CacheService
	generator *captcha.Generator
	selector  *selection.Selector
	cfg       *config.Config
}

// NewParticipantService wires the participation workflows together.
func NewParticipantService(
	repo repository.ParticipantRepository,
	giveaways GiveawayProvider,
	subs SubscriptionVerifier,
	publisher EventPublisher,
	cacheService *cache.CacheService,
	generator *captcha.Generator,
	selector *selection.Selector,
	cfg *config.Config,
) ParticipantService {
	return &participantService{
		repo:      repo,
		giveaways: giveaways,
		subs:      subs,
		publisher: publisher,
		cache:     cacheService,
		generator: generator,
		selector:  selector,
		cfg:       cfg,
	}
}

// activeGiveaway fetches the giveaway and rejects missing or inactive ones.
func (s *participantService) activeGiveaway(ctx context.Context, giveawayID int64) (*models.GiveawayInfo, error) {
	giveaway, err := s.giveaways.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, err
	}
	if giveaway == nil {
		return nil, apperrors.NewGiveawayNotFoundError(giveawayID)
	}
	if !giveaway.IsActive() {
		return nil, apperrors.New(apperrors.ErrCodeGiveawayNotActive, "giveaway is not accepting participants").
			WithDetail("giveaway_id", giveawayID).
			WithDetail("status", giveaway.Status)
	}
	return giveaway, nil
}

// issueChallenge returns the single active captcha session for the pair,
// creating one when none exists and regenerating the question in place when
// the current one has expired.
func (s *participantService) issueChallenge(ctx context.Context, userID, giveawayID int64) (*models.CaptchaSession, error) {
	session, err := s.repo.GetActiveCaptchaSession(ctx, userID, giveawayID)
	switch {
	case err == repository.ErrNoActiveSession:
		question, answer := s.generator.Generate()
		session = &models.CaptchaSession{
			SessionToken:  uuid.NewString(),
			UserID:        userID,
			GiveawayID:    giveawayID,
			Question:      question,
			CorrectAnswer: answer,
			MaxAttempts:   s.cfg.Captcha.MaxAttempts,
			ExpiresAt:     time.Now().UTC().Add(s.cfg.CaptchaTimeout()),
		}
		if err := s.repo.CreateCaptchaSession(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	case err != nil:
		return nil, err
	}

	if session.IsExpired() {
		return s.regenerateChallenge(ctx, session)
	}
	return session, nil
}

// regenerateChallenge replaces the session's question and resets its attempt
// counter and expiry, keeping the session token stable.
func (s *participantService) regenerateChallenge(ctx context.Context, session *models.CaptchaSession) (*models.CaptchaSession, error) {
	question, answer := s.generator.Generate()
	expiresAt := time.Now().UTC().Add(s.cfg.CaptchaTimeout())
	if err := s.repo.RegenerateCaptchaSession(ctx, session.ID, question, answer, expiresAt); err != nil {
		return nil, err
	}
	session.Question = question
	session.CorrectAnswer = answer
	session.Attempts = 0
	session.ExpiresAt = expiresAt
	return session, nil
}

func (s *participantService) invalidateCountCache(ctx context.Context, giveawayID int64) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(countCacheKeyFmt, giveawayID)); err != nil {
		logger.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("count cache invalidation failed")
	}
}

// invalidateGiveawayCaches drops every cached read for the giveaway; used
// after a selection run changes winner state across many rows at once.
func (s *participantService) invalidateGiveawayCaches(ctx context.Context, giveawayID int64) {
	if err := s.cache.DeletePattern(ctx, fmt.Sprintf("participants:*:%d", giveawayID)); err != nil {
		logger.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("cache invalidation failed")
	}
}

// confirmParticipation runs the subscription check and commits the
// participation row. The caller has already verified the giveaway is active
// and the user's captcha latch is set.
func (s *participantService) confirmParticipation(ctx context.Context, giveaway *models.GiveawayInfo, req *dto.RegisterRequest) (int64, error) {
	subResult, err := s.subs.Verify(ctx, req.UserID, giveaway.AccountID)
	if err != nil {
		return 0, err
	}
	if !subResult.IsSubscribed {
		appErr := apperrors.New(apperrors.ErrCodeNotSubscribed, "user is not subscribed to the channel").
			WithDetail("membership_status", subResult.MembershipStatus)
		if subResult.ChannelInfo != nil {
			appErr = appErr.WithDetail("channel_title", subResult.ChannelInfo.Title)
		}
		return 0, appErr
	}

	now := time.Now().UTC()
	participant := &models.Participant{
		GiveawayID:             req.GiveawayID,
		UserID:                 req.UserID,
		Username:               req.Username,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		CaptchaCompleted:       true,
		SubscriptionVerified:   true,
		SubscriptionVerifiedAt: &now,
	}
	participantID, err := s.repo.CreateParticipation(ctx, participant)
	if err == repository.ErrAlreadyParticipating {
		return 0, apperrors.New(apperrors.ErrCodeAlreadyParticipated, "user already participated in this giveaway")
	}
	if err != nil {
		return 0, apperrors.NewDatabaseError("create participation", err)
	}

	s.invalidateCountCache(ctx, req.GiveawayID)
	logger.Info().
		Int64("giveaway_id", req.GiveawayID).
		Int64("user_id", req.UserID).
		Int64("participant_id", participantID).
		Msg("participation confirmed")
	return participantID, nil
}

func (s *participantService) sanitizeRegister(req *dto.RegisterRequest) error {
	if err := validation.UserID(req.UserID); err != nil {
		return err
	}
	if err := validation.GiveawayID(req.GiveawayID); err != nil {
		return err
	}
	username, err := validation.Username(req.Username)
	if err != nil {
		return err
	}
	req.Username = username
	if req.FirstName, err = validation.Name(req.FirstName, "first_name"); err != nil {
		return err
	}
	if req.LastName, err = validation.Name(req.LastName, "last_name"); err != nil {
		return err
	}
	return nil
}

func (s *participantService) RegisterParticipation(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := s.sanitizeRegister(req); err != nil {
		return nil, err
	}

	giveaway, err := s.activeGiveaway(ctx, req.GiveawayID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetParticipant(ctx, req.GiveawayID, req.UserID); err == nil && existing != nil {
		return nil, apperrors.New(apperrors.ErrCodeAlreadyParticipated, "user already participated in this giveaway")
	} else if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.NewDatabaseError("get participant", err)
	}

	record, err := s.repo.GetUserRecord(ctx, req.UserID)
	if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.NewDatabaseError("get user record", err)
	}

	if record == nil || !record.CaptchaCompleted {
		session, err := s.issueChallenge(ctx, req.UserID, req.GiveawayID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("issue captcha", err)
		}
		return &dto.RegisterResponse{
			Success:           true,
			RequiresCaptcha:   true,
			CaptchaQuestion:   session.Question,
			CaptchaSessionID:  session.SessionToken,
			AttemptsRemaining: session.AttemptsRemaining(),
		}, nil
	}

	participantID, err := s.confirmParticipation(ctx, giveaway, req)
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{
		Success:                true,
		RequiresCaptcha:        false,
		ParticipationConfirmed: true,
		ParticipantID:          participantID,
	}, nil
}

func (s *participantService) ValidateCaptcha(ctx context.Context, req *dto.ValidateCaptchaRequest) (*dto.ValidateCaptchaResponse, error) {
	if err := validation.UserID(req.UserID); err != nil {
		return nil, err
	}
	if err := validation.GiveawayID(req.GiveawayID); err != nil {
		return nil, err
	}

	session, err := s.repo.GetActiveCaptchaSession(ctx, req.UserID, req.GiveawayID)
	if err == repository.ErrNoActiveSession {
		return nil, apperrors.New(apperrors.ErrCodeCaptchaSessionNotFound, "no active captcha session for this user and giveaway")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get captcha session", err)
	}
	if req.CaptchaSessionID != "" && req.CaptchaSessionID != session.SessionToken {
		return nil, apperrors.New(apperrors.ErrCodeCaptchaSessionNotFound, "captcha session token does not match")
	}

	if session.IsExpired() {
		session, err = s.regenerateChallenge(ctx, session)
		if err != nil {
			return nil, apperrors.NewDatabaseError("regenerate captcha", err)
		}
		return nil, apperrors.New(apperrors.ErrCodeCaptchaExpired, "captcha expired, a new question was generated").
			WithDetail("new_question", session.Question).
			WithDetail("captcha_session_id", session.SessionToken).
			WithDetail("attempts_remaining", session.AttemptsRemaining())
	}

	// A session that already burned its attempts gets a fresh question
	// before the answer is even counted.
	if !session.CanAttempt() {
		session, err = s.regenerateChallenge(ctx, session)
		if err != nil {
			return nil, apperrors.NewDatabaseError("regenerate captcha", err)
		}
		return &dto.ValidateCaptchaResponse{
			Success:           false,
			CaptchaCompleted:  false,
			AttemptsRemaining: session.MaxAttempts,
			NewQuestion:       session.Question,
			Error:             "Maximum attempts reached, a new question was generated",
		}, nil
	}

	attempts, err := s.repo.IncrementCaptchaAttempts(ctx, session.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("increment captcha attempts", err)
	}

	if s.generator.ValidateAnswer(req.Answer, session.CorrectAnswer) {
		if err := s.repo.CompleteCaptcha(ctx, session.ID, req.UserID); err != nil {
			return nil, apperrors.NewDatabaseError("complete captcha", err)
		}
		logger.Info().Int64("user_id", req.UserID).Msg("captcha completed")

		giveaway, err := s.activeGiveaway(ctx, req.GiveawayID)
		if err != nil {
			return nil, err
		}
		participantID, err := s.confirmParticipation(ctx, giveaway, &dto.RegisterRequest{
			GiveawayID: req.GiveawayID,
			UserID:     req.UserID,
		})
		if err != nil {
			return nil, err
		}
		return &dto.ValidateCaptchaResponse{
			Success:                true,
			CaptchaCompleted:       true,
			ParticipationConfirmed: true,
			ParticipantID:          participantID,
		}, nil
	}

	remaining := session.MaxAttempts - attempts
	if remaining > 0 {
		return &dto.ValidateCaptchaResponse{
			Success:           false,
			CaptchaCompleted:  false,
			AttemptsRemaining: remaining,
			Error:             "Incorrect answer",
		}, nil
	}

	// Attempts exhausted: hand out a fresh question instead of locking the
	// user out.
	session, err = s.regenerateChallenge(ctx, session)
	if err != nil {
		return nil, apperrors.NewDatabaseError("regenerate captcha", err)
	}
	return &dto.ValidateCaptchaResponse{
		Success:           false,
		CaptchaCompleted:  false,
		AttemptsRemaining: session.MaxAttempts,
		NewQuestion:       session.Question,
		Error:             "Maximum attempts reached, a new question was generated",
	}, nil
}

func (s *participantService) GenerateCaptcha(ctx context.Context, req *dto.GenerateCaptchaRequest) (*dto.GenerateCaptchaResponse, error) {
	if err := validation.UserID(req.UserID); err != nil {
		return nil, err
	}
	if err := validation.GiveawayID(req.GiveawayID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetUserRecord(ctx, req.UserID)
	if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.NewDatabaseError("get user record", err)
	}
	if record != nil && record.CaptchaCompleted {
		return nil, apperrors.New(apperrors.ErrCodeCaptchaAlreadyCompleted, "user has already completed captcha verification")
	}

	if _, err := s.activeGiveaway(ctx, req.GiveawayID); err != nil {
		return nil, err
	}

	session, err := s.issueChallenge(ctx, req.UserID, req.GiveawayID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("issue captcha", err)
	}
	return &dto.GenerateCaptchaResponse{
		Success:           true,
		CaptchaQuestion:   session.Question,
		CaptchaSessionID:  session.SessionToken,
		AttemptsRemaining: session.AttemptsRemaining(),
		ExpiresAt:         session.ExpiresAt,
	}, nil
}

func (s *participantService) GetCaptchaStatus(ctx context.Context, userID int64) (*dto.CaptchaStatusResponse, error) {
	if err := validation.UserID(userID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetUserRecord(ctx, userID)
	if err == repository.ErrNotFound {
		return &dto.CaptchaStatusResponse{Success: true}, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get user record", err)
	}
	return &dto.CaptchaStatusResponse{
		Success:             true,
		CaptchaCompleted:    record.CaptchaCompleted,
		CompletedAt:         record.CaptchaCompletedAt,
		TotalParticipations: record.TotalParticipations,
		TotalWins:           record.TotalWins,
	}, nil
}

func (s *participantService) GetWinnerStatus(ctx context.Context, userID, giveawayID int64) (*dto.WinnerStatusResponse, error) {
	if err := validation.UserID(userID); err != nil {
		return nil, err
	}
	if err := validation.GiveawayID(giveawayID); err != nil {
		return nil, err
	}

	totalWinners, err := s.repo.CountWinners(ctx, giveawayID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("count winners", err)
	}

	participant, err := s.repo.GetParticipant(ctx, giveawayID, userID)
	if err == repository.ErrNotFound {
		return &dto.WinnerStatusResponse{Success: true, TotalWinners: totalWinners}, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get participant", err)
	}
	return &dto.WinnerStatusResponse{
		Success:          true,
		Participated:     true,
		IsWinner:         participant.IsWinner,
		TotalWinners:     totalWinners,
		WinnerSelectedAt: participant.WinnerSelectedAt,
	}, nil
}

func (s *participantService) GetParticipantCount(ctx context.Context, giveawayID int64) (*dto.CountResponse, error) {
	if err := validation.GiveawayID(giveawayID); err != nil {
		return nil, err
	}

	var count int64
	key := fmt.Sprintf(countCacheKeyFmt, giveawayID)
	err := s.cache.GetOrSet(ctx, key, &count, countCacheTTL, func() (interface{}, error) {
		return s.repo.CountByGiveaway(ctx, giveawayID)
	})
	if err != nil {
		// Cache trouble must not break reads.
		count, err = s.repo.CountByGiveaway(ctx, giveawayID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("count participants", err)
		}
	}
	return &dto.CountResponse{Success: true, Count: count}, nil
}

func (s *participantService) ListParticipants(ctx context.Context, giveawayID int64, page, limit int) (*dto.ListResponse, error) {
	if err := validation.GiveawayID(giveawayID); err != nil {
		return nil, err
	}
	page, limit = validation.Pagination(page, limit)

	stats, err := s.repo.StatsByGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("participant stats", err)
	}
	participants, err := s.repo.ListByGiveaway(ctx, giveawayID, limit, (page-1)*limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list participants", err)
	}

	pages := stats.Total / int64(limit)
	if stats.Total%int64(limit) != 0 {
		pages++
	}
	return &dto.ListResponse{
		Success:      true,
		Participants: participants,
		Stats:        stats,
		Pagination: dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: stats.Total,
			Pages: pages,
		},
	}, nil
}

func (s *participantService) SelectWinners(ctx context.Context, giveawayID int64, req *dto.SelectWinnersRequest) (*dto.SelectWinnersResponse, error) {
	if err := validation.GiveawayID(giveawayID); err != nil {
		return nil, err
	}
	if req.WinnerCount == 0 {
		req.WinnerCount = 1
	}
	if err := validation.WinnerCount(req.WinnerCount); err != nil {
		return nil, err
	}

	giveaway, err := s.giveaways.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, err
	}
	if giveaway == nil {
		return nil, apperrors.NewGiveawayNotFoundError(giveawayID)
	}

	useSeed := req.UseSeed || s.cfg.Selection.Method == selection.MethodDeterministic
	auditEnabled := s.cfg.Selection.AuditEnabled

	pick := func(pool []int64) (*selection.Result, error) {
		result, err := s.selector.Select(pool, req.WinnerCount, giveawayID, useSeed, req.CustomSeed)
		if err != nil {
			return nil, err
		}
		if auditEnabled {
			if report := selection.ValidateIntegrity(pool, result.Winners); !report.Valid() {
				return nil, fmt.Errorf("selection integrity check failed: %+v", report)
			}
		}
		return result, nil
	}

	outcome, err := s.repo.SelectWinners(ctx, giveawayID, req.WinnerCount, pick)
	if err == repository.ErrNoEligibleParticipants {
		return nil, apperrors.New(apperrors.ErrCodeInsufficientParticipants, "no eligible participants for winner selection").
			WithDetail("giveaway_id", giveawayID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("select winners", err)
	}

	s.invalidateGiveawayCaches(ctx, giveawayID)
	logger.Info().
		Int64("giveaway_id", giveawayID).
		Int("winners", outcome.Result.WinnerCountSel).
		Int("pool", outcome.Result.TotalParticipants).
		Str("method", outcome.Result.Method).
		Msg("winners selected")

	// Notifications are best effort; the selection is already committed.
	if err := s.giveaways.NotifyWinnersSelected(ctx, giveawayID, outcome.Winners); err != nil {
		logger.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("winner notification failed")
	}
	if s.publisher != nil {
		event := queueEvent(giveawayID, outcome)
		if err := s.publisher.PublishWinnersSelected(ctx, event); err != nil {
			logger.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("winner event publish failed")
		}
	}

	return &dto.SelectWinnersResponse{
		Success:             true,
		Winners:             outcome.Winners,
		TotalParticipants:   outcome.Result.TotalParticipants,
		WinnerCountSelected: outcome.Result.WinnerCountSel,
		SelectionMethod:     outcome.Result.Method,
		SelectionTimestamp:  outcome.Result.SelectionTimestamp,
	}, nil
}

func (s *participantService) GetSelectionLogs(ctx context.Context, giveawayID int64) (*dto.SelectionLogsResponse, error) {
	if err := validation.GiveawayID(giveawayID); err != nil {
		return nil, err
	}

	logs, err := s.repo.GetSelectionLogs(ctx, giveawayID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get selection logs", err)
	}
	if logs == nil {
		logs = []models.WinnerSelectionLog{}
	}
	return &dto.SelectionLogsResponse{Success: true, Logs: logs}, nil
}

func queueEvent(giveawayID int64, outcome *repository.SelectionOutcome) queue.WinnersSelectedEvent {
	return queue.WinnersSelectedEvent{
		GiveawayID:         giveawayID,
		Winners:            outcome.Winners,
		TotalParticipants:  outcome.Result.TotalParticipants,
		SelectionMethod:    outcome.Result.Method,
		SelectionTimestamp: outcome.Result.SelectionTimestamp,
	}
}

func (s *participantService) UpdateDeliveryStatus(ctx context.Context, req *dto.UpdateDeliveryRequest) (*dto.UpdateDeliveryResponse, error) {
	if len(req.ParticipantIDs) == 0 {
		return nil, apperrors.NewValidationError("participant_ids", "must not be empty")
	}

	ts := time.Now().UTC()
	if req.DeliveryTimestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.DeliveryTimestamp)
		if err != nil {
			return nil, apperrors.NewValidationError("delivery_timestamp", "must be RFC 3339")
		}
		ts = parsed.UTC()
	}

	outcome, err := s.repo.UpdateDeliveryStatus(ctx, req.ParticipantIDs, req.Delivered, ts)
	if err != nil {
		return nil, apperrors.NewDatabaseError("update delivery status", err)
	}

	failed := make([]dto.FailedUpdate, 0, len(outcome.NotFound))
	for _, id := range outcome.NotFound {
		failed = append(failed, dto.FailedUpdate{ParticipantID: id, Error: "participant not found"})
	}
	return &dto.UpdateDeliveryResponse{
		Success:       true,
		UpdatedCount:  outcome.Updated,
		FailedUpdates: failed,
	}, nil
}

func (s *participantService) GetUserHistory(ctx context.Context, userID int64) (*dto.HistoryResponse, error) {
	if err := validation.UserID(userID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetUserRecord(ctx, userID)
	if err == repository.ErrNotFound {
		record = &models.UserCaptchaRecord{UserID: userID}
	} else if err != nil {
		return nil, apperrors.NewDatabaseError("get user record", err)
	}

	recent, err := s.repo.ListRecentByUser(ctx, userID, historyRecentLimit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recent participations", err)
	}

	summaries := make([]dto.ParticipationSummary, 0, len(recent))
	for _, p := range recent {
		summary := dto.ParticipationSummary{
			GiveawayID:     p.GiveawayID,
			GiveawayTitle:  "Unknown Giveaway",
			GiveawayStatus: "unknown",
			IsWinner:       p.IsWinner,
		}
		participatedAt := p.ParticipatedAt
		summary.ParticipatedAt = &participatedAt
		if giveaway, err := s.giveaways.GetGiveaway(ctx, p.GiveawayID); err == nil && giveaway != nil {
			summary.GiveawayTitle = giveaway.Title
			summary.GiveawayStatus = giveaway.Status
		}
		summaries = append(summaries, summary)
	}

	return &dto.HistoryResponse{
		Success:              true,
		UserStats:            record,
		RecentParticipations: summaries,
	}, nil
}

func (s *participantService) VerifySubscription(ctx context.Context, req *dto.VerifySubscriptionRequest) (*dto.VerifySubscriptionResponse, error) {
	if err := validation.UserID(req.UserID); err != nil {
		return nil, err
	}
	if req.AccountID <= 0 {
		return nil, apperrors.NewValidationError("account_id", "must be positive")
	}

	result, err := s.subs.Verify(ctx, req.UserID, req.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.VerifySubscriptionResponse{
		Success:          true,
		IsSubscribed:     result.IsSubscribed,
		MembershipStatus: result.MembershipStatus,
	}
	if result.IsSubscribed {
		resp.VerifiedAt = &now
	}
	if result.ChannelInfo != nil {
		resp.ChannelInfo = result.ChannelInfo
	}
	return resp, nil
}

func (s *participantService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpiredCaptchaSessions(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError("cleanup captcha sessions", err)
	}
	return deleted, nil
}
