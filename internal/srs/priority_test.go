package srs

import (
	"testing"
	"time"

	"murajaah-backend/internal/models"
)

func TestDifficultyForEase(t *testing.T) {
	tests := []struct {
		ease     float64
		expected string
	}{
		{1.3, DifficultyVeryHard},
		{1.79, DifficultyVeryHard},
		{1.8, DifficultyHard},
		{2.19, DifficultyHard},
		{2.2, DifficultyMedium},
		{2.59, DifficultyMedium},
		{2.6, DifficultyEasy},
		{3.0, DifficultyEasy},
	}

	for _, tc := range tests {
		if got := DifficultyForEase(tc.ease); got != tc.expected {
			t.Errorf("ease %f: expected %s, got %s", tc.ease, tc.expected, got)
		}
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, name := range []string{DifficultyVeryHard, DifficultyHard, DifficultyMedium, DifficultyEasy} {
		if !ValidDifficulty(name) {
			t.Errorf("%s should be valid", name)
		}
	}
	if ValidDifficulty("impossible") {
		t.Error("unknown bucket should be invalid")
	}
}

func schedule(surah, ayah int, ease float64, due time.Time) models.ReviewSchedule {
	return models.ReviewSchedule{
		Surah:        surah,
		Ayah:         ayah,
		IntervalDays: 1,
		EaseFactor:   ease,
		NextReviewAt: due,
	}
}

func TestPriorityScore_OverdueOutranksFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	overdue := schedule(2, 255, 2.5, now.AddDate(0, 0, -3))
	fresh := schedule(2, 255, 2.5, now)

	if PriorityScore(overdue, now) <= PriorityScore(fresh, now) {
		t.Error("three days overdue should outrank an item due right now")
	}
}

func TestPriorityScore_LowEaseOutranksHighEase(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	hard := schedule(2, 255, 1.4, due)
	easy := schedule(2, 255, 2.8, due)

	if PriorityScore(hard, now) <= PriorityScore(easy, now) {
		t.Error("harder item with equal overdue-ness should score higher")
	}
}

func TestRankDue_DerivedFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ranked := RankDue([]models.ReviewSchedule{
		schedule(1, 1, 1.5, now.AddDate(0, 0, -2)),
	}, now)

	if len(ranked) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(ranked))
	}

	item := ranked[0]
	if !item.IsOverdue {
		t.Error("item two days past due should be overdue")
	}
	if item.DaysUntilReview >= 0 {
		t.Errorf("Expected negative days_until_review, got %f", item.DaysUntilReview)
	}
	if item.Difficulty != DifficultyVeryHard {
		t.Errorf("Expected very_hard, got %s", item.Difficulty)
	}
	if item.PriorityScore <= 0 {
		t.Errorf("Expected positive priority for overdue hard item, got %f", item.PriorityScore)
	}
}

func TestRankDue_Ordering(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []models.ReviewSchedule{
		schedule(3, 10, 2.5, now),                  // due now, average ease
		schedule(2, 255, 2.5, now.AddDate(0, 0, -5)), // most overdue
		schedule(4, 1, 1.4, now),                   // due now, very hard
	}

	ranked := RankDue(items, now)

	if ranked[0].Surah != 2 || ranked[0].Ayah != 255 {
		t.Errorf("Expected most overdue item first, got %d:%d", ranked[0].Surah, ranked[0].Ayah)
	}
	if ranked[1].Surah != 4 {
		t.Errorf("Expected hard item second, got %d:%d", ranked[1].Surah, ranked[1].Ayah)
	}
	if ranked[2].Surah != 3 {
		t.Errorf("Expected average item last, got %d:%d", ranked[2].Surah, ranked[2].Ayah)
	}
}

func TestRankDue_TieBreaksOnSurahThenAyah(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	items := []models.ReviewSchedule{
		schedule(3, 7, 2.5, due),
		schedule(2, 255, 2.5, due),
		schedule(2, 10, 2.5, due),
	}

	ranked := RankDue(items, now)

	got := [][2]int{
		{ranked[0].Surah, ranked[0].Ayah},
		{ranked[1].Surah, ranked[1].Ayah},
		{ranked[2].Surah, ranked[2].Ayah},
	}
	want := [][2]int{{2, 10}, {2, 255}, {3, 7}}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %d:%d, got %d:%d", i, want[i][0], want[i][1], got[i][0], got[i][1])
		}
	}
}

func TestRankDue_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []models.ReviewSchedule{
		schedule(1, 1, 2.0, now.Add(-time.Hour)),
		schedule(2, 2, 2.0, now.Add(-time.Hour)),
		schedule(3, 3, 1.5, now.AddDate(0, 0, -1)),
	}

	first := RankDue(items, now)
	second := RankDue(items, now)

	for i := range first {
		if first[i].Surah != second[i].Surah || first[i].Ayah != second[i].Ayah {
			t.Fatalf("ordering not stable at position %d", i)
		}
	}
}

func TestStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }

	tests := []struct {
		name     string
		active   []time.Time
		expected int
	}{
		{"no activity", nil, 0},
		{"today only", []time.Time{day(0)}, 1},
		{"three consecutive days", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"gap breaks streak", []time.Time{day(0), day(-1), day(-3)}, 2},
		{"nothing today", []time.Time{day(-1), day(-2)}, 0},
		{"duplicate same-day entries count once", []time.Time{day(0), day(0), day(-1)}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Streak(tc.active, today); got != tc.expected {
				t.Errorf("Expected streak %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestStreak_CappedAt365(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	var active []time.Time
	for i := 0; i < 400; i++ {
		active = append(active, today.AddDate(0, 0, -i))
	}

	if got := Streak(active, today); got != 365 {
		t.Errorf("Expected streak capped at 365, got %d", got)
	}
}
