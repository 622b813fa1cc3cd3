package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/ovoronin/weather-report-bot/internal/report"
	"github.com/ovoronin/weather-report-bot/internal/store"
	"github.com/ovoronin/weather-report-bot/internal/weather"
)

// Scheduler periodically rebuilds the full report and stores it, so a
// command arriving shortly after works from the cached copy instead of
// fanning out to the providers again.
type Scheduler struct {
	scheduler *gocron.Scheduler
	synth     *report.Synthesizer
	store     *store.MemoryStore
	locations []weather.Location
	interval  time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, synth *report.Synthesizer, st *store.MemoryStore) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		synth:     synth,
		store:     st,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic prefetch job and starts the underlying
// scheduler. An interval of zero disables prefetching.
func (s *Scheduler) Start() error {
	if s.interval <= 0 || len(s.locations) == 0 {
		log.Println("scheduler: report prefetch disabled")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: prefetching weather report")

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		text := s.synth.BuildFullReport(ctx, s.locations)
		s.store.Save(store.GeneratedReport{
			Text:        text,
			GeneratedAt: time.Now().UTC(),
		})

		log.Println("scheduler: report prefetch completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
