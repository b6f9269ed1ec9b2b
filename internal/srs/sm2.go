// Package srs implements the SM-2 spaced-repetition state machine that
// schedules memorization reviews.
package srs

import "math"

// Quality grades a single recitation attempt.
type Quality int

const (
	// Complete blackout, no recall at all
	QualityBlackout Quality = 0
	// Wrong, but the correct recitation was recognized when shown
	QualityIncorrect Quality = 1
	// Wrong, though the passage felt familiar
	QualityIncorrectFamiliar Quality = 2
	// Correct with serious effort
	QualityCorrectDifficult Quality = 3
	// Correct after some hesitation
	QualityCorrectHesitation Quality = 4
	// Perfect recall
	QualityPerfect Quality = 5
)

const (
	InitialIntervalDays = 1
	InitialEaseFactor   = 2.5
	InitialConfidence   = 0.5
	MinEaseFactor       = 1.3

	// Grades at or above this count as a successful review.
	PassThreshold = QualityCorrectDifficult
)

func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// State holds the per-item scheduling variables.
type State struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
	Confidence   float64
}

// NewState is the state of a freshly added item.
func NewState() State {
	return State{
		IntervalDays: InitialIntervalDays,
		EaseFactor:   InitialEaseFactor,
		Repetitions:  0,
		Confidence:   InitialConfidence,
	}
}

// Apply runs one SM-2 update. Quality must already be validated.
func Apply(s State, q Quality) State {
	// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02)), floored at 1.3
	miss := float64(QualityPerfect - q)
	ease := s.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}
	s.EaseFactor = ease

	if q < PassThreshold {
		// Failed recall: the item starts over, the ease penalty above stands.
		s.Repetitions = 0
		s.IntervalDays = InitialIntervalDays
	} else {
		s.Repetitions++
		switch s.Repetitions {
		case 1:
			s.IntervalDays = 1
		case 2:
			s.IntervalDays = 6
		default:
			s.IntervalDays = int(math.Round(float64(s.IntervalDays) * ease))
		}
	}

	// Confidence is a secondary signal independent of the SM-2 variables.
	// Quality 3 leaves it untouched.
	switch {
	case q >= QualityCorrectHesitation:
		s.Confidence = math.Min(1.0, s.Confidence+0.1)
	case q <= QualityIncorrectFamiliar:
		s.Confidence = math.Max(0.0, s.Confidence-0.2)
	}

	return s
}
