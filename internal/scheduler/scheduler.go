package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-gateway/internal/metrics"
	"github.com/i474232898/weather-gateway/internal/store"
	"github.com/i474232898/weather-gateway/internal/weather"
)

const probeTimeout = 30 * time.Second

// Scheduler periodically probes every registered provider with a current
// weather request and records the outcome. Probe results are only reported,
// never served as weather data.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	probes    *store.ProbeStore
	location  string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(service *weather.Service, probes *store.ProbeStore, location string, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		probes:    probes,
		location:  location,
		interval:  interval,
	}
}

// Start schedules the probe job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Info().Msg("scheduler: probe interval is zero; provider probes disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce probes each provider in turn, one request at a time.
func (s *Scheduler) RunOnce(ctx context.Context) {
	log.Debug().Msg("scheduler: running provider probes")
	for _, name := range s.service.ProviderNames() {
		start := time.Now()
		_, err := s.service.Current(ctx, name, s.location)

		p := store.Probe{
			Provider: name,
			At:       start.UTC(),
			OK:       err == nil,
			Kind:     weather.KindLabel(err),
			Latency:  time.Since(start),
		}
		if err != nil {
			p.Error = err.Error()
			metrics.ProbeUp.WithLabelValues(name).Set(0)
		} else {
			metrics.ProbeUp.WithLabelValues(name).Set(1)
		}
		s.probes.Save(p)
	}
	log.Debug().Msg("scheduler: provider probes complete")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
