package services

import "fmt"

// Typed errors surfaced to the HTTP layer.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

// Scheduler errors.

type DuplicateItemError struct{ Surah, Ayah int }

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("ayah %d:%d is already in the review queue", e.Surah, e.Ayah)
}

type InvalidQualityError struct{ Quality int }

func (e *InvalidQualityError) Error() string {
	return fmt.Sprintf("quality %d is out of range, must be 0-5", e.Quality)
}

type NotDueError struct{ Message string }

func (e *NotDueError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "item is not due for review yet"
}

type InvalidLimitError struct{ Limit int }

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("limit %d is out of range, must be 1-100", e.Limit)
}

// ConcurrentModificationError is the only retryable error: the caller should
// re-fetch the schedule and submit the review again.
type ConcurrentModificationError struct{}

func (e *ConcurrentModificationError) Error() string {
	return "schedule was modified concurrently, please retry"
}
