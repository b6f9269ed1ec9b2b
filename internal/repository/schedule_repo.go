package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"murajaah-backend/internal/models"
	"murajaah-backend/internal/srs"
)

// ErrNotDue is returned when a review is submitted before the scheduled time.
// The check runs inside the row lock so a concurrent submit that already moved
// next_review_at forward makes the second submit fail instead of double-counting.
var ErrNotDue = errors.New("schedule is not due for review")

// IsUniqueViolation reports whether err is a Postgres duplicate-key error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsSerializationFailure reports whether err is a write conflict the caller
// can retry (serialization failure or deadlock).
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}

type ScheduleRepo struct {
	pool *pgxpool.Pool
}

func NewScheduleRepo(pool *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{pool: pool}
}

const scheduleColumns = `id, user_id, surah, ayah, interval_days, ease_factor,
	repetitions, confidence, next_review_at, last_reviewed_at, created_at, updated_at`

func scanSchedule(row pgx.Row, s *models.ReviewSchedule) error {
	return row.Scan(
		&s.ID, &s.UserID, &s.Surah, &s.Ayah, &s.IntervalDays, &s.EaseFactor,
		&s.Repetitions, &s.Confidence, &s.NextReviewAt, &s.LastReviewedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
}

// Create inserts a schedule in its initial state, due one day out.
func (r *ScheduleRepo) Create(ctx context.Context, s *models.ReviewSchedule) error {
	s.ID = uuid.New()

	query := `INSERT INTO review_schedules
		(id, user_id, surah, ayah, interval_days, ease_factor, repetitions, confidence, next_review_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.Surah, s.Ayah, s.IntervalDays, s.EaseFactor,
		s.Repetitions, s.Confidence, s.NextReviewAt,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ReviewSchedule, error) {
	s := &models.ReviewSchedule{}
	query := `SELECT ` + scheduleColumns + ` FROM review_schedules WHERE id = $1`

	if err := scanSchedule(r.pool.QueryRow(ctx, query, id), s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ScheduleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReviewSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM review_schedules
		WHERE user_id = $1 ORDER BY surah, ayah`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []models.ReviewSchedule
	for rows.Next() {
		var s models.ReviewSchedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// ListDue returns schedules due at now, oldest due date first. Pass surah 0
// for no surah filter. Final priority ranking happens in the srs package.
func (r *ScheduleRepo) ListDue(ctx context.Context, userID uuid.UUID, surah int, now time.Time) ([]models.ReviewSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM review_schedules
		WHERE user_id = $1 AND next_review_at <= $2`
	args := []interface{}{userID, now}

	if surah > 0 {
		query += " AND surah = $3"
		args = append(args, surah)
	}
	query += " ORDER BY next_review_at ASC, surah ASC, ayah ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []models.ReviewSchedule
	for rows.Next() {
		var s models.ReviewSchedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// SubmitReview applies one SM-2 update under a row lock. The select, the due
// check, the state update and the review_logs insert commit together, so
// concurrent submits for the same schedule serialize instead of losing writes.
func (r *ScheduleRepo) SubmitReview(ctx context.Context, scheduleID, userID uuid.UUID, quality srs.Quality, now time.Time) (*models.ReviewSchedule, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin review transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	s := &models.ReviewSchedule{}
	query := `SELECT ` + scheduleColumns + ` FROM review_schedules
		WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := scanSchedule(tx.QueryRow(ctx, query, scheduleID, userID), s); err != nil {
		return nil, err
	}

	if s.NextReviewAt.After(now) {
		return nil, ErrNotDue
	}

	state := srs.Apply(srs.State{
		IntervalDays: s.IntervalDays,
		EaseFactor:   s.EaseFactor,
		Repetitions:  s.Repetitions,
		Confidence:   s.Confidence,
	}, quality)

	s.IntervalDays = state.IntervalDays
	s.EaseFactor = state.EaseFactor
	s.Repetitions = state.Repetitions
	s.Confidence = state.Confidence
	s.NextReviewAt = now.AddDate(0, 0, state.IntervalDays)
	s.LastReviewedAt = &now

	_, err = tx.Exec(ctx, `UPDATE review_schedules SET
			interval_days = $1, ease_factor = $2, repetitions = $3, confidence = $4,
			next_review_at = $5, last_reviewed_at = $6, updated_at = NOW()
		WHERE id = $7`,
		s.IntervalDays, s.EaseFactor, s.Repetitions, s.Confidence,
		s.NextReviewAt, now, s.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO review_logs
			(id, schedule_id, user_id, surah, ayah, quality, interval_days, ease_factor, repetitions, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New(), s.ID, s.UserID, s.Surah, s.Ayah, int(quality),
		s.IntervalDays, s.EaseFactor, s.Repetitions, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record review: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit review: %w", err)
	}
	return s, nil
}

// Reset restores a schedule to its initial state, due one day out. Idempotent
// up to the review date: a second reset yields the same state again.
func (r *ScheduleRepo) Reset(ctx context.Context, scheduleID, userID uuid.UUID, now time.Time) (*models.ReviewSchedule, error) {
	s := &models.ReviewSchedule{}
	query := `UPDATE review_schedules SET
			interval_days = $1, ease_factor = $2, repetitions = 0, confidence = $3,
			next_review_at = $4, last_reviewed_at = NULL, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + scheduleColumns

	err := scanSchedule(r.pool.QueryRow(ctx, query,
		srs.InitialIntervalDays, srs.InitialEaseFactor, srs.InitialConfidence,
		now.AddDate(0, 0, srs.InitialIntervalDays), scheduleID, userID,
	), s)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ScheduleRepo) Delete(ctx context.Context, scheduleID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM review_schedules WHERE id = $1 AND user_id = $2", scheduleID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DueCounts returns, per user, how many schedules are currently due. Used by
// the reminder publisher.
func (r *ScheduleRepo) DueCounts(ctx context.Context, now time.Time) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, COUNT(*)
		FROM review_schedules
		WHERE next_review_at <= $1
		GROUP BY user_id
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var userID uuid.UUID
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, err
		}
		counts[userID] = n
	}
	return counts, rows.Err()
}
