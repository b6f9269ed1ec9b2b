package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewSchedule holds the SM-2 scheduling state for one (user, ayah) pair.
type ReviewSchedule struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Surah          int        `json:"surah"`
	Ayah           int        `json:"ayah"`
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	Confidence     float64    `json:"confidence"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type AddItemRequest struct {
	Surah int `json:"surah"`
	Ayah  int `json:"ayah"`
}

type GradeRequest struct {
	Quality int `json:"quality"` // 0=blackout .. 5=perfect
}

// DueItem is a due schedule plus the fields derived at selection time.
type DueItem struct {
	ReviewSchedule
	DaysUntilReview float64 `json:"days_until_review"` // negative when overdue
	IsOverdue       bool    `json:"is_overdue"`
	PriorityScore   float64 `json:"priority_score"`
	Difficulty      string  `json:"difficulty"`
}

// ReviewLog records one graded review together with the state it produced.
type ReviewLog struct {
	ID           uuid.UUID `json:"id"`
	ScheduleID   uuid.UUID `json:"schedule_id"`
	UserID       uuid.UUID `json:"user_id"`
	Surah        int       `json:"surah"`
	Ayah         int       `json:"ayah"`
	Quality      int       `json:"quality"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	Repetitions  int       `json:"repetitions"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

type ReviewStats struct {
	TotalItems   int            `json:"total_items"`
	DueToday     int            `json:"due_today"`
	Overdue      int            `json:"overdue"`
	DueTomorrow  int            `json:"due_tomorrow"`
	DueThisWeek  int            `json:"due_this_week"`
	DueNextWeek  int            `json:"due_next_week"`
	ByDifficulty map[string]int `json:"by_difficulty"`
	StreakDays   int            `json:"streak_days"`
}
