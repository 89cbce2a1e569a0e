package processor

import (
	"context"

	"cookboard/pkg/logger"
	"cookboard/worker-service/internal/app/worker/service"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически запускает сверку агрегатов
type CronScheduler struct {
	cron     *cron.Cron
	auditSvc service.AuditServiceInterface
}

func NewCronScheduler(auditSvc service.AuditServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:     cron.New(),
		auditSvc: auditSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		logger.Info().Msg("Cron job triggered: aggregate audit sweep")

		if _, err := s.auditSvc.SweepAggregates(ctx); err != nil {
			logger.Error().Err(err).Msg("Aggregate audit sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Первый проход сразу при старте, чтобы не ждать расписания
	logger.Info().Msg("Performing initial aggregate audit sweep...")
	if _, err := s.auditSvc.SweepAggregates(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial aggregate audit sweep failed")
	}

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
