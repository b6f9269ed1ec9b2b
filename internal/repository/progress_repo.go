package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"murajaah-backend/internal/models"
)

// ProgressRepo owns the secondary memorization_progress record. It is updated
// asynchronously by the review worker and never read by the scheduler itself.
type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

// RecordReview upserts the progress row for the reviewed ayah. Successful
// reviews bump the recitation count; every review refreshes the confidence
// snapshot carried on the event.
func (r *ProgressRepo) RecordReview(ctx context.Context, ev models.ReviewEvent, success bool) error {
	increment := 0
	if success {
		increment = 1
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO memorization_progress (user_id, surah, ayah, recitation_count, confidence, last_recited_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, surah, ayah) DO UPDATE SET
			recitation_count = memorization_progress.recitation_count + $4,
			confidence = $5,
			last_recited_at = $6
	`, ev.UserID, ev.Surah, ev.Ayah, increment, ev.Confidence, ev.ReviewedAt)
	return err
}

func (r *ProgressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MemorizationProgress, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, surah, ayah, recitation_count, confidence, last_recited_at
		FROM memorization_progress
		WHERE user_id = $1
		ORDER BY surah, ayah
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []models.MemorizationProgress
	for rows.Next() {
		var p models.MemorizationProgress
		if err := rows.Scan(&p.UserID, &p.Surah, &p.Ayah, &p.RecitationCount, &p.Confidence, &p.LastRecitedAt); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
