package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"murajaah-backend/internal/models"
	"murajaah-backend/internal/repository"
	"murajaah-backend/internal/services"
	"murajaah-backend/internal/srs"
)

// Pool consumes review events off the redis queue and maintains the
// secondary memorization progress record. The schedule update itself is
// already committed by the time an event lands here, so a lost or failed
// event only delays the progress counter, it never loses a review.
type Pool struct {
	redis        *redis.Client
	pubsub       *redis.Client
	progressRepo *repository.ProgressRepo
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(redisClient, pubsubClient *redis.Client, progressRepo *repository.ProgressRepo, workerCount int) *Pool {
	return &Pool{
		redis:        redisClient,
		pubsub:       pubsubClient,
		progressRepo: progressRepo,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d review event workers", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, services.ReviewEventQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var event models.ReviewEvent
		if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
			log.Printf("Worker %d: failed to parse review event: %v", id, err)
			continue
		}

		p.processEvent(ctx, id, event)
	}
}

func (p *Pool) processEvent(ctx context.Context, id int, event models.ReviewEvent) {
	success := srs.Quality(event.Quality) >= srs.PassThreshold

	if err := p.progressRepo.RecordReview(ctx, event, success); err != nil {
		log.Printf("Worker %d: failed to record progress for schedule %s: %v", id, event.ScheduleID, err)
		return
	}

	p.publishRecorded(ctx, event, success)
}

func (p *Pool) publishRecorded(ctx context.Context, event models.ReviewEvent, success bool) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":        "review.recorded",
		"schedule_id": event.ScheduleID,
		"surah":       event.Surah,
		"ayah":        event.Ayah,
		"quality":     event.Quality,
		"success":     success,
		"reviewed_at": event.ReviewedAt,
	})
	if err != nil {
		return
	}

	channel := "user_updates:" + event.UserID.String()
	if err := p.pubsub.Publish(ctx, channel, string(payload)).Err(); err != nil {
		log.Printf("failed to publish review.recorded to %s: %v", channel, err)
	}
}
