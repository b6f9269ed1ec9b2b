package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"murajaah-backend/internal/models"
	"murajaah-backend/internal/repository"
	"murajaah-backend/internal/srs"
)

const (
	// ReviewEventQueue feeds the progress worker.
	ReviewEventQueue = "queue:review-events"

	MinDueLimit = 1
	MaxDueLimit = 100

	surahCount = 114
)

// ReviewService owns the scheduler operations: adding ayat to the review
// queue, grading reviews, selecting due items and computing statistics.
type ReviewService struct {
	schedules *repository.ScheduleRepo
	stats     *repository.StatsRepo
	progress  *repository.ProgressRepo
	redis     *redis.Client
}

func NewReviewService(schedules *repository.ScheduleRepo, stats *repository.StatsRepo, progress *repository.ProgressRepo, redisClient *redis.Client) *ReviewService {
	return &ReviewService{
		schedules: schedules,
		stats:     stats,
		progress:  progress,
		redis:     redisClient,
	}
}

// AddItem puts an ayah on the user's review queue in the initial SM-2 state,
// due one day out.
func (s *ReviewService) AddItem(ctx context.Context, userID uuid.UUID, surah, ayah int) (*models.ReviewSchedule, error) {
	fieldErrors := make(map[string]string)
	if surah < 1 || surah > surahCount {
		fieldErrors["surah"] = "Surah must be between 1 and 114"
	}
	if ayah < 1 {
		fieldErrors["ayah"] = "Ayah must be at least 1"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	state := srs.NewState()
	now := time.Now().UTC()

	schedule := &models.ReviewSchedule{
		UserID:       userID,
		Surah:        surah,
		Ayah:         ayah,
		IntervalDays: state.IntervalDays,
		EaseFactor:   state.EaseFactor,
		Repetitions:  state.Repetitions,
		Confidence:   state.Confidence,
		NextReviewAt: now.AddDate(0, 0, state.IntervalDays),
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &DuplicateItemError{Surah: surah, Ayah: ayah}
		}
		return nil, err
	}
	return schedule, nil
}

// SubmitReview grades a due item and advances its schedule. The repository
// serializes concurrent submissions for the same schedule with a row lock.
func (s *ReviewService) SubmitReview(ctx context.Context, userID, scheduleID uuid.UUID, quality int) (*models.ReviewSchedule, error) {
	q := srs.Quality(quality)
	if !q.Valid() {
		return nil, &InvalidQualityError{Quality: quality}
	}

	now := time.Now().UTC()
	schedule, err := s.schedules.SubmitReview(ctx, scheduleID, userID, q, now)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, &NotFoundError{Message: "Review item not found"}
		case errors.Is(err, repository.ErrNotDue):
			return nil, &NotDueError{}
		case repository.IsSerializationFailure(err):
			return nil, &ConcurrentModificationError{}
		}
		return nil, err
	}

	// Fire-and-forget: the progress record and live updates are secondary,
	// the committed schedule update is the source of truth.
	s.enqueueReviewEvent(ctx, schedule, quality, now)

	return schedule, nil
}

func (s *ReviewService) enqueueReviewEvent(ctx context.Context, schedule *models.ReviewSchedule, quality int, reviewedAt time.Time) {
	event := models.ReviewEvent{
		ScheduleID: schedule.ID,
		UserID:     schedule.UserID,
		Surah:      schedule.Surah,
		Ayah:       schedule.Ayah,
		Quality:    quality,
		Confidence: schedule.Confidence,
		ReviewedAt: reviewedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.redis.LPush(ctx, ReviewEventQueue, string(payload)).Err(); err != nil {
		log.Printf("failed to enqueue review event for schedule %s: %v", schedule.ID, err)
	}
}

// GetDueItems returns due schedules ranked by priority. Surah 0 means no
// surah filter, difficulty "" means no bucket filter.
func (s *ReviewService) GetDueItems(ctx context.Context, userID uuid.UUID, surah int, difficulty string, limit int) ([]models.DueItem, error) {
	if limit < MinDueLimit || limit > MaxDueLimit {
		return nil, &InvalidLimitError{Limit: limit}
	}
	if difficulty != "" && !srs.ValidDifficulty(difficulty) {
		return nil, &ValidationError{Fields: map[string]string{
			"difficulty": "Difficulty must be very_hard, hard, medium, or easy",
		}}
	}
	if surah < 0 || surah > surahCount {
		return nil, &ValidationError{Fields: map[string]string{
			"surah": "Surah must be between 1 and 114",
		}}
	}

	now := time.Now().UTC()
	schedules, err := s.schedules.ListDue(ctx, userID, surah, now)
	if err != nil {
		return nil, err
	}

	ranked := srs.RankDue(schedules, now)
	ranked = filterByDifficulty(ranked, difficulty)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func filterByDifficulty(items []models.DueItem, difficulty string) []models.DueItem {
	if difficulty == "" {
		return items
	}
	filtered := items[:0]
	for _, item := range items {
		if item.Difficulty == difficulty {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (s *ReviewService) ListItems(ctx context.Context, userID uuid.UUID) ([]models.ReviewSchedule, error) {
	return s.schedules.ListByUser(ctx, userID)
}

func (s *ReviewService) GetItem(ctx context.Context, userID, scheduleID uuid.UUID) (*models.ReviewSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Review item not found"}
		}
		return nil, err
	}
	if schedule.UserID != userID {
		return nil, &ForbiddenError{Message: "Review item belongs to another user"}
	}
	return schedule, nil
}

// GetProgress returns the secondary per-ayah progress records. They are
// maintained asynchronously, so a just-graded review may not be reflected yet.
func (s *ReviewService) GetProgress(ctx context.Context, userID uuid.UUID) ([]models.MemorizationProgress, error) {
	return s.progress.ListByUser(ctx, userID)
}

// ResetItem restores a schedule to its just-added state. Resetting twice in a
// row yields the same state both times.
func (s *ReviewService) ResetItem(ctx context.Context, userID, scheduleID uuid.UUID) (*models.ReviewSchedule, error) {
	schedule, err := s.schedules.Reset(ctx, scheduleID, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Review item not found"}
		}
		return nil, err
	}
	return schedule, nil
}

func (s *ReviewService) RemoveItem(ctx context.Context, userID, scheduleID uuid.UUID) error {
	if err := s.schedules.Delete(ctx, scheduleID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "Review item not found"}
		}
		return err
	}
	return nil
}

// GetStats aggregates the schedule counts plus the review streak. The streak
// counts consecutive calendar days ending today with at least one successful
// review; it is best-effort and capped at 365 days.
func (s *ReviewService) GetStats(ctx context.Context, userID uuid.UUID) (*models.ReviewStats, error) {
	stats, err := s.stats.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	days, err := s.stats.SuccessfulReviewDays(ctx, userID, now.AddDate(0, 0, -366))
	if err != nil {
		return nil, err
	}
	stats.StreakDays = srs.Streak(days, now)

	return stats, nil
}
