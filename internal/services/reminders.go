package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"murajaah-backend/internal/repository"
)

// ReminderScheduler periodically publishes each user's due-item count to
// their pub/sub channel so connected clients can surface a reminder.
// Delivery is best-effort; a missed poll only delays the nudge.
type ReminderScheduler struct {
	schedules    *repository.ScheduleRepo
	redis        *redis.Client
	pollInterval time.Duration
	stopChan     chan struct{}
}

func NewReminderScheduler(schedules *repository.ScheduleRepo, redisClient *redis.Client, pollInterval time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		schedules:    schedules,
		redis:        redisClient,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

func (s *ReminderScheduler) Start() {
	go s.loop()
	log.Printf("Reminder scheduler started (every %s)", s.pollInterval)
}

func (s *ReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *ReminderScheduler) loop() {
	// Run on startup as well as by interval.
	s.publishDueReminders(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.publishDueReminders(context.Background(), time.Now().UTC())
		}
	}
}

func (s *ReminderScheduler) publishDueReminders(ctx context.Context, now time.Time) {
	counts, err := s.schedules.DueCounts(ctx, now)
	if err != nil {
		log.Printf("due reminders: failed to load due counts: %v", err)
		return
	}

	for userID, count := range counts {
		payload, err := json.Marshal(map[string]interface{}{
			"type":      "review.due",
			"due_count": count,
			"sent_at":   now,
		})
		if err != nil {
			continue
		}

		channel := "user_updates:" + userID.String()
		if err := s.redis.Publish(ctx, channel, string(payload)).Err(); err != nil {
			log.Printf("due reminders: failed to publish to %s: %v", channel, err)
		}
	}
}
