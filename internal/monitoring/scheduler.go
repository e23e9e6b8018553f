package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs periodic maintenance of the audit event log.
type Scheduler struct {
	eventSvc  services.EventServiceProvider
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewScheduler creates a scheduler that prunes events older than retention
// on the given cron spec (standard 5-field or descriptors like "@hourly").
func NewScheduler(eventSvc services.EventServiceProvider, spec string, retention time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		eventSvc:  eventSvc,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.pruneEvents); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the scheduler in its own goroutine.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting background scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler")
}

// pruneEvents deletes audit events past the retention window.
func (s *Scheduler) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	n, err := s.eventSvc.PruneEvents(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to prune events")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Time("before", cutoff).Msg("Scheduler: pruned old events")
	}
}
