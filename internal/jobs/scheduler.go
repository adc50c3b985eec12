package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Stream carrying maintenance tasks for the media worker.
const taskStream = "media:maintenance"

// Scheduler enqueues recurring maintenance work onto a Redis stream,
// currently a nightly sweep of stored objects whose owning post or
// user is gone.
type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", s.enqueueOrphanSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for an in-flight enqueue to finish,
// capped at five seconds.
func (s *Scheduler) Stop() {
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler drain timed out")
	}
}

func (s *Scheduler) enqueueOrphanSweep() {
	if err := s.enqueueTask(map[string]any{
		"type": "orphan_sweep",
	}); err != nil {
		s.log.Error().Err(err).Msg("enqueue orphan sweep failed")
	}
}

func (s *Scheduler) enqueueTask(payload map[string]any) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: taskStream,
		Values: payload,
	}).Result()
	return err
}
