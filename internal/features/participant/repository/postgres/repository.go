package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"participant-service/internal/features/participant/models"
	"participant-service/internal/features/participant/repository"
)

// uniqueViolation is the Postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

// ParticipantRepository persists participants, captcha state and selection
// audit logs.
type ParticipantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantColumns = `
	id, giveaway_id, user_id, username, first_name, last_name,
	participated_at, captcha_completed, subscription_verified, subscription_verified_at,
	is_winner, winner_selected_at,
	message_delivered, delivery_timestamp, delivery_attempts`

func scanParticipant(row interface{ Scan(...interface{}) error }) (*models.Participant, error) {
	var (
		p          models.Participant
		username   sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
		verifiedAt sql.NullTime
		winnerAt   sql.NullTime
		deliveryAt sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.GiveawayID, &p.UserID, &username, &firstName, &lastName,
		&p.ParticipatedAt, &p.CaptchaCompleted, &p.SubscriptionVerified, &verifiedAt,
		&p.IsWinner, &winnerAt,
		&p.MessageDelivered, &deliveryAt, &p.DeliveryAttempts,
	)
	if err != nil {
		return nil, err
	}
	p.Username = username.String
	p.FirstName = firstName.String
	p.LastName = lastName.String
	if verifiedAt.Valid {
		p.SubscriptionVerifiedAt = &verifiedAt.Time
	}
	if winnerAt.Valid {
		p.WinnerSelectedAt = &winnerAt.Time
	}
	if deliveryAt.Valid {
		p.DeliveryTimestamp = &deliveryAt.Time
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// GetParticipant returns the participation row for a (giveaway, user) pair.
func (r *ParticipantRepository) GetParticipant(ctx context.Context, giveawayID, userID int64) (*models.Participant, error) {
	const q = `SELECT ` + participantColumns + ` FROM participants WHERE giveaway_id=$1 AND user_id=$2`
	p, err := scanParticipant(r.db.QueryRowContext(ctx, q, giveawayID, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return p, err
}

// CreateParticipation inserts the participant row and bumps the user's
// participation counters in a single transaction. The unique constraint on
// (giveaway_id, user_id) is the duplicate guard; a violation maps to
// ErrAlreadyParticipating and leaves no partial state.
func (r *ParticipantRepository) CreateParticipation(ctx context.Context, p *models.Participant) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `
	INSERT INTO participants (giveaway_id, user_id, username, first_name, last_name,
		participated_at, captcha_completed, subscription_verified, subscription_verified_at)
	VALUES ($1,$2,$3,$4,$5,now(),TRUE,TRUE,now())
	RETURNING id`
	var id int64
	err = tx.QueryRowContext(ctx, qInsert,
		p.GiveawayID, p.UserID, nullString(p.Username), nullString(p.FirstName), nullString(p.LastName),
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			err = repository.ErrAlreadyParticipating
		}
		return 0, err
	}

	// The captcha_completed latch is one-way: the upsert never resets it.
	const qRecord = `
	INSERT INTO user_captcha_records (user_id, captcha_completed, captcha_completed_at,
		first_participation_at, total_participations, total_wins, last_participation_at)
	VALUES ($1, TRUE, now(), now(), 1, 0, now())
	ON CONFLICT (user_id) DO UPDATE
	SET total_participations = user_captcha_records.total_participations + 1,
	    last_participation_at = now()`
	if _, err = tx.ExecContext(ctx, qRecord, p.UserID); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// CountByGiveaway returns the participant count for a giveaway.
func (r *ParticipantRepository) CountByGiveaway(ctx context.Context, giveawayID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE giveaway_id=$1`, giveawayID,
	).Scan(&count)
	return count, err
}

// CountWinners returns the number of selected winners for a giveaway.
func (r *ParticipantRepository) CountWinners(ctx context.Context, giveawayID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE giveaway_id=$1 AND is_winner`, giveawayID,
	).Scan(&count)
	return count, err
}

// ListByGiveaway returns one page of participants ordered by entry time.
func (r *ParticipantRepository) ListByGiveaway(ctx context.Context, giveawayID int64, limit, offset int) ([]models.Participant, error) {
	const q = `SELECT ` + participantColumns + `
	FROM participants WHERE giveaway_id=$1
	ORDER BY participated_at ASC, id ASC
	LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, giveawayID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// StatsByGiveaway aggregates participant counts for a giveaway.
func (r *ParticipantRepository) StatsByGiveaway(ctx context.Context, giveawayID int64) (*models.ParticipantStats, error) {
	const q = `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE captcha_completed),
	       COUNT(*) FILTER (WHERE subscription_verified),
	       COUNT(*) FILTER (WHERE is_winner)
	FROM participants WHERE giveaway_id=$1`
	var stats models.ParticipantStats
	err := r.db.QueryRowContext(ctx, q, giveawayID).Scan(
		&stats.Total, &stats.CaptchaCompleted, &stats.SubscriptionVerified, &stats.Winners,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListRecentByUser returns the user's most recent participations.
func (r *ParticipantRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]models.Participant, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	const q = `SELECT ` + participantColumns + `
	FROM participants WHERE user_id=$1
	ORDER BY participated_at DESC
	LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateDeliveryStatus updates delivery flags for a batch of participants in
// one transaction. Unknown ids are reported, not fatal.
func (r *ParticipantRepository) UpdateDeliveryStatus(ctx context.Context, participantIDs []int64, delivered bool, ts time.Time) (*repository.DeliveryOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
	UPDATE participants
	SET message_delivered=$2, delivery_timestamp=$3, delivery_attempts=delivery_attempts+1
	WHERE id=$1`
	outcome := &repository.DeliveryOutcome{}
	for _, id := range participantIDs {
		res, execErr := tx.ExecContext(ctx, q, id, delivered, ts)
		if execErr != nil {
			err = execErr
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			outcome.NotFound = append(outcome.NotFound, id)
		} else {
			outcome.Updated++
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return outcome, nil
}

// GetUserRecord returns the global per-user captcha record.
func (r *ParticipantRepository) GetUserRecord(ctx context.Context, userID int64) (*models.UserCaptchaRecord, error) {
	const q = `
	SELECT id, user_id, captcha_completed, captcha_completed_at,
	       first_participation_at, total_participations, total_wins, last_participation_at
	FROM user_captcha_records WHERE user_id=$1`
	var (
		rec         models.UserCaptchaRecord
		completedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&rec.ID, &rec.UserID, &rec.CaptchaCompleted, &completedAt,
		&rec.FirstParticipationAt, &rec.TotalParticipations, &rec.TotalWins, &rec.LastParticipationAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		rec.CaptchaCompletedAt = &completedAt.Time
	}
	return &rec, nil
}

// CreateCaptchaSession inserts a new challenge and fills its id.
func (r *ParticipantRepository) CreateCaptchaSession(ctx context.Context, s *models.CaptchaSession) error {
	const q = `
	INSERT INTO captcha_sessions (session_token, user_id, giveaway_id, question, correct_answer,
		attempts, max_attempts, completed, expires_at, created_at)
	VALUES ($1,$2,$3,$4,$5,0,$6,FALSE,$7,now())
	RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		s.SessionToken, s.UserID, s.GiveawayID, s.Question, s.CorrectAnswer,
		s.MaxAttempts, s.ExpiresAt,
	).Scan(&s.ID, &s.CreatedAt)
}

// GetActiveCaptchaSession returns the newest non-completed session for a
// (user, giveaway) pair.
func (r *ParticipantRepository) GetActiveCaptchaSession(ctx context.Context, userID, giveawayID int64) (*models.CaptchaSession, error) {
	const q = `
	SELECT id, session_token, user_id, giveaway_id, question, correct_answer,
	       attempts, max_attempts, completed, expires_at, created_at
	FROM captcha_sessions
	WHERE user_id=$1 AND giveaway_id=$2 AND NOT completed
	ORDER BY created_at DESC, id DESC
	LIMIT 1`
	var s models.CaptchaSession
	err := r.db.QueryRowContext(ctx, q, userID, giveawayID).Scan(
		&s.ID, &s.SessionToken, &s.UserID, &s.GiveawayID, &s.Question, &s.CorrectAnswer,
		&s.Attempts, &s.MaxAttempts, &s.Completed, &s.ExpiresAt, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// IncrementCaptchaAttempts bumps a session's attempt counter and returns the
// new value.
func (r *ParticipantRepository) IncrementCaptchaAttempts(ctx context.Context, sessionID int64) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx,
		`UPDATE captcha_sessions SET attempts = attempts + 1 WHERE id=$1 RETURNING attempts`,
		sessionID,
	).Scan(&attempts)
	if err == sql.ErrNoRows {
		return 0, repository.ErrNoActiveSession
	}
	return attempts, err
}

// RegenerateCaptchaSession replaces the question in place: attempts reset to
// zero and a fresh expiry window starts. Users are never locked out.
func (r *ParticipantRepository) RegenerateCaptchaSession(ctx context.Context, sessionID int64, question string, answer int, expiresAt time.Time) error {
	const q = `
	UPDATE captcha_sessions
	SET question=$2, correct_answer=$3, attempts=0, expires_at=$4, created_at=now()
	WHERE id=$1 AND NOT completed`
	res, err := r.db.ExecContext(ctx, q, sessionID, question, answer, expiresAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNoActiveSession
	}
	return nil
}

// CompleteCaptcha marks the session completed and latches the user's global
// captcha record in one transaction. The latch survives even if the
// subsequent subscription check fails.
func (r *ParticipantRepository) CompleteCaptcha(ctx context.Context, sessionID, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE captcha_sessions SET completed=TRUE WHERE id=$1`, sessionID,
	); err != nil {
		return err
	}

	const qRecord = `
	INSERT INTO user_captcha_records (user_id, captcha_completed, captcha_completed_at,
		first_participation_at, total_participations, total_wins, last_participation_at)
	VALUES ($1, TRUE, now(), now(), 0, 0, now())
	ON CONFLICT (user_id) DO UPDATE
	SET captcha_completed = TRUE,
	    captcha_completed_at = COALESCE(user_captcha_records.captcha_completed_at, now())`
	if _, err = tx.ExecContext(ctx, qRecord, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteExpiredCaptchaSessions removes sessions whose window has passed.
func (r *ParticipantRepository) DeleteExpiredCaptchaSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM captcha_sessions WHERE expires_at < now() AND NOT completed`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteStaleCaptchaSessions removes sessions older than the cutoff,
// completed or not.
func (r *ParticipantRepository) DeleteStaleCaptchaSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM captcha_sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SelectWinners runs one selection in a single transaction: the eligible
// pool is snapshotted under row locks, the pick runs over that snapshot,
// winner flags and counters are written, and the audit log row records the
// exact pool size read in this transaction. Registrations committing after
// the snapshot are not part of this run.
func (r *ParticipantRepository) SelectWinners(ctx context.Context, giveawayID int64, requestedCount int, pick repository.SelectionPick) (*repository.SelectionOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qPool = `
	SELECT id, user_id, username, first_name
	FROM participants
	WHERE giveaway_id=$1 AND captcha_completed AND subscription_verified
	ORDER BY participated_at ASC, id ASC
	FOR UPDATE`
	rows, err := tx.QueryContext(ctx, qPool, giveawayID)
	if err != nil {
		return nil, err
	}

	type poolEntry struct {
		participantID int64
		username      string
		firstName     string
	}
	entries := make(map[int64]poolEntry)
	var pool []int64
	for rows.Next() {
		var (
			entry     poolEntry
			userID    int64
			username  sql.NullString
			firstName sql.NullString
		)
		if err = rows.Scan(&entry.participantID, &userID, &username, &firstName); err != nil {
			rows.Close()
			return nil, err
		}
		entry.username = username.String
		entry.firstName = firstName.String
		entries[userID] = entry
		pool = append(pool, userID)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(pool) == 0 {
		err = repository.ErrNoEligibleParticipants
		return nil, err
	}

	result, err := pick(pool)
	if err != nil {
		return nil, err
	}

	selectedAt := result.SelectionTimestamp
	if _, err = tx.ExecContext(ctx,
		`UPDATE participants SET is_winner=TRUE, winner_selected_at=$3
		 WHERE giveaway_id=$1 AND user_id = ANY($2)`,
		giveawayID, pq.Array(result.Winners), selectedAt,
	); err != nil {
		return nil, err
	}

	const qLog = `
	INSERT INTO winner_selection_log (giveaway_id, total_participants, winner_count_requested,
		winner_count_selected, selection_method, selection_seed, selected_user_ids, selection_timestamp)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err = tx.ExecContext(ctx, qLog,
		giveawayID, result.TotalParticipants, requestedCount,
		result.WinnerCountSel, result.Method, nullString(result.Seed),
		pq.Array(result.Winners), selectedAt,
	); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE user_captcha_records SET total_wins = total_wins + 1 WHERE user_id = ANY($1)`,
		pq.Array(result.Winners),
	); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	winners := make([]models.WinnerDetail, 0, len(result.Winners))
	for _, userID := range result.Winners {
		entry := entries[userID]
		winners = append(winners, models.WinnerDetail{
			UserID:        userID,
			Username:      entry.username,
			FirstName:     entry.firstName,
			ParticipantID: entry.participantID,
		})
	}

	return &repository.SelectionOutcome{Result: result, Winners: winners}, nil
}

// GetSelectionLogs returns the audit trail for a giveaway, newest first.
func (r *ParticipantRepository) GetSelectionLogs(ctx context.Context, giveawayID int64) ([]models.WinnerSelectionLog, error) {
	const q = `
	SELECT id, giveaway_id, total_participants, winner_count_requested, winner_count_selected,
	       selection_method, selection_seed, selected_user_ids, selection_timestamp
	FROM winner_selection_log
	WHERE giveaway_id=$1
	ORDER BY selection_timestamp DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, giveawayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WinnerSelectionLog
	for rows.Next() {
		var (
			log  models.WinnerSelectionLog
			seed sql.NullString
			ids  pq.Int64Array
		)
		if err := rows.Scan(
			&log.ID, &log.GiveawayID, &log.TotalParticipants, &log.WinnerCountReq, &log.WinnerCountSel,
			&log.SelectionMethod, &seed, &ids, &log.SelectionTimestamp,
		); err != nil {
			return nil, err
		}
		log.SelectionSeed = seed.String
		log.SelectedUserIDs = ids
		out = append(out, log)
	}
	return out, rows.Err()
}
