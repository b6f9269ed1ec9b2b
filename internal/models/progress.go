package models

import (
	"time"

	"github.com/google/uuid"
)

// MemorizationProgress is the secondary per-ayah record kept alongside the
// scheduler state: how often the ayah was recited successfully and a
// standalone confidence score.
type MemorizationProgress struct {
	UserID          uuid.UUID  `json:"user_id"`
	Surah           int        `json:"surah"`
	Ayah            int        `json:"ayah"`
	RecitationCount int        `json:"recitation_count"`
	Confidence      float64    `json:"confidence"`
	LastRecitedAt   *time.Time `json:"last_recited_at"`
}

// ReviewEvent is the payload queued for the progress worker after a review.
type ReviewEvent struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	UserID     uuid.UUID `json:"user_id"`
	Surah      int       `json:"surah"`
	Ayah       int       `json:"ayah"`
	Quality    int       `json:"quality"`
	Confidence float64   `json:"confidence"`
	ReviewedAt time.Time `json:"reviewed_at"`
}
