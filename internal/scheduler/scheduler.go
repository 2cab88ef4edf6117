package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"StockGym/internal/agent"
	"StockGym/internal/env"
)

// Scheduler runs benchmark episodes on a cron schedule: every tick it drives
// one full episode with the configured baseline policy and lets the
// environment's recorder capture the history. Episodes are serialized; the
// environment permits no concurrent steps.
type Scheduler struct {
	Cron   *cron.Cron
	Env    *env.Env
	Policy agent.Policy
	Ctx    context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, e *env.Env, policy agent.Policy) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Env:    e,
		Policy: policy,
		Ctx:    ctx,
	}
}

// Register schedules the benchmark episode task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.runEpisode); err != nil {
		return fmt.Errorf("register benchmark task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one benchmark episode immediately.
func (s *Scheduler) RunNow() {
	s.runEpisode()
}

func (s *Scheduler) runEpisode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	obs, err := s.Env.Reset()
	if err != nil {
		log.Printf("[ERROR] benchmark reset: %v", err)
		return
	}
	log.Printf("[INFO] benchmark episode %d started with policy %s",
		s.Env.Episode(), s.Policy.Name())

	var cumulative float64
	steps := 0
	for {
		select {
		case <-s.Ctx.Done():
			log.Printf("[WARN] benchmark episode %d interrupted", s.Env.Episode())
			return
		default:
		}

		next, reward, done, _, err := s.Env.Step(s.Policy.Act(obs))
		if err != nil {
			log.Printf("[ERROR] benchmark step: %v", err)
			return
		}
		cumulative += reward
		steps++
		if done {
			break
		}
		obs = next
	}

	summary := s.Env.Summary()
	log.Printf("[INFO] benchmark episode %d done: %d steps, cumulative reward %.2f, final value %.2f",
		summary.Episode, steps, cumulative, s.Env.TotalValue())
}
