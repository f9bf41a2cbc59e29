package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/edvass/notevault/internal/services"
)

// Scheduler runs the periodic database backup on a cron expression.
type Scheduler struct {
	backupSvc  services.BackupServiceProvider
	eventSvc   services.EventServiceProvider
	expression string
	keep       int
	ticker     *time.Ticker
	done       chan bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(backupSvc services.BackupServiceProvider, eventSvc services.EventServiceProvider, expression string, keep int) *Scheduler {
	return &Scheduler{
		backupSvc:  backupSvc,
		eventSvc:   eventSvc,
		expression: expression,
		keep:       keep,
		done:       make(chan bool),
	}
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	schedule, err := cron.ParseStandard(s.expression)
	if err != nil {
		log.Error().Err(err).Str("expression", s.expression).Msg("Scheduler: invalid cron expression, backups disabled")
		<-s.done
		return
	}

	log.Info().Str("expression", s.expression).Msg("Starting backup scheduler")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	nextRun := schedule.Next(time.Now())
	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping backup scheduler")
			return
		case now := <-s.ticker.C:
			if now.After(nextRun) {
				go s.runBackup()
				nextRun = schedule.Next(now)
			}
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// runBackup performs one scheduled snapshot and prunes old files.
func (s *Scheduler) runBackup() {
	backup, err := s.backupSvc.CreateBackup()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: scheduled backup failed")
		s.eventSvc.CreateEvent("backup.schedule.fail", "error", "Scheduled backup failed: "+err.Error(), nil)
		return
	}
	log.Info().Str("backup_id", backup.ID).Int64("size", backup.Size).Msg("Scheduler: backup completed")

	if err := s.backupSvc.PruneBackups(s.keep); err != nil {
		log.Error().Err(err).Msg("Scheduler: backup pruning failed")
	}
}
