package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"murajaah-backend/internal/models"
	"murajaah-backend/internal/srs"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Counts aggregates the schedule counts for one user in a single query.
func (r *StatsRepo) Counts(ctx context.Context, userID uuid.UUID) (*models.ReviewStats, error) {
	stats := &models.ReviewStats{ByDifficulty: make(map[string]int)}
	var veryHard, hard, medium, easy int

	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE next_review_at::date <= CURRENT_DATE),
			COUNT(*) FILTER (WHERE next_review_at < NOW() - INTERVAL '1 day'),
			COUNT(*) FILTER (WHERE next_review_at::date = CURRENT_DATE + 1),
			COUNT(*) FILTER (WHERE next_review_at::date > CURRENT_DATE
				AND next_review_at::date <= CURRENT_DATE + 7),
			COUNT(*) FILTER (WHERE next_review_at::date > CURRENT_DATE + 7
				AND next_review_at::date <= CURRENT_DATE + 14),
			COUNT(*) FILTER (WHERE ease_factor < $2),
			COUNT(*) FILTER (WHERE ease_factor >= $2 AND ease_factor < $3),
			COUNT(*) FILTER (WHERE ease_factor >= $3 AND ease_factor < $4),
			COUNT(*) FILTER (WHERE ease_factor >= $4)
		FROM review_schedules
		WHERE user_id = $1
	`, userID, srs.VeryHardMaxEase, srs.HardMaxEase, srs.MediumMaxEase).Scan(
		&stats.TotalItems, &stats.DueToday, &stats.Overdue, &stats.DueTomorrow,
		&stats.DueThisWeek, &stats.DueNextWeek,
		&veryHard, &hard, &medium, &easy,
	)
	if err != nil {
		return nil, err
	}

	stats.ByDifficulty[srs.DifficultyVeryHard] = veryHard
	stats.ByDifficulty[srs.DifficultyHard] = hard
	stats.ByDifficulty[srs.DifficultyMedium] = medium
	stats.ByDifficulty[srs.DifficultyEasy] = easy

	return stats, nil
}

// SuccessfulReviewDays returns the distinct calendar days since the cutoff on
// which the user logged at least one successful review. One aggregate query
// instead of one query per day; the streak walk happens in the srs package.
func (r *StatsRepo) SuccessfulReviewDays(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT reviewed_at::date
		FROM review_logs
		WHERE user_id = $1 AND repetitions > 0 AND reviewed_at >= $2
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
