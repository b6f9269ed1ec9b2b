package srs

import (
	"sort"
	"time"

	"murajaah-backend/internal/models"
)

// Difficulty buckets derived from the ease factor. Thresholds are a policy
// choice, not part of the SM-2 math.
const (
	DifficultyVeryHard = "very_hard"
	DifficultyHard     = "hard"
	DifficultyMedium   = "medium"
	DifficultyEasy     = "easy"
)

// Bucket upper bounds on the ease factor.
const (
	VeryHardMaxEase = 1.8
	HardMaxEase     = 2.2
	MediumMaxEase   = 2.6
)

func DifficultyForEase(ease float64) string {
	switch {
	case ease < VeryHardMaxEase:
		return DifficultyVeryHard
	case ease < HardMaxEase:
		return DifficultyHard
	case ease < MediumMaxEase:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// ValidDifficulty reports whether name is one of the four bucket names.
func ValidDifficulty(name string) bool {
	switch name {
	case DifficultyVeryHard, DifficultyHard, DifficultyMedium, DifficultyEasy:
		return true
	}
	return false
}

// overdueWeight converts low ease into equivalent overdue days: one full ease
// point below the initial 2.5 counts like two days overdue.
const overdueWeight = 2.0

// PriorityScore combines how overdue an item is with how hard it has
// historically been. Higher means review sooner.
func PriorityScore(s models.ReviewSchedule, now time.Time) float64 {
	overdueDays := now.Sub(s.NextReviewAt).Hours() / 24
	return overdueDays + (InitialEaseFactor-s.EaseFactor)*overdueWeight
}

// RankDue orders due schedules by priority, most overdue and hardest first.
// Ties break on (surah, ayah) ascending so the ordering is deterministic.
func RankDue(items []models.ReviewSchedule, now time.Time) []models.DueItem {
	ranked := make([]models.DueItem, 0, len(items))
	for _, s := range items {
		daysUntil := s.NextReviewAt.Sub(now).Hours() / 24
		ranked = append(ranked, models.DueItem{
			ReviewSchedule:  s,
			DaysUntilReview: daysUntil,
			IsOverdue:       daysUntil < 0,
			PriorityScore:   PriorityScore(s, now),
			Difficulty:      DifficultyForEase(s.EaseFactor),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PriorityScore != ranked[j].PriorityScore {
			return ranked[i].PriorityScore > ranked[j].PriorityScore
		}
		if ranked[i].Surah != ranked[j].Surah {
			return ranked[i].Surah < ranked[j].Surah
		}
		return ranked[i].Ayah < ranked[j].Ayah
	})

	return ranked
}

// Streak counts consecutive calendar days ending today on which at least one
// successful review happened. activeDays must hold distinct dates truncated
// to midnight UTC. The walk is capped at 365 days.
func Streak(activeDays []time.Time, today time.Time) int {
	seen := make(map[time.Time]bool, len(activeDays))
	for _, d := range activeDays {
		seen[d.UTC().Truncate(24*time.Hour)] = true
	}

	day := today.UTC().Truncate(24 * time.Hour)
	streak := 0
	for streak < 365 && seen[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
