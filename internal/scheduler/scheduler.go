package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/config"
	"github.com/mamadbah2/coop/internal/repository/sheets"
	"github.com/mamadbah2/coop/internal/service/reporting"
	"github.com/mamadbah2/coop/pkg/clients/sms"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	exporter     sheets.Exporter
	smsClient    sms.Client
	cfg          config.Config
	logger       *zap.Logger
}

// New creates a scheduler that closes each day's books: the day-book summary
// goes to the shared spreadsheet and, when SMS is configured, to the
// manager's phone. exporter and smsClient may be nil.
func New(cfg config.Config, reportingSvc *reporting.Service, exporter sheets.Exporter, smsClient sms.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Reporting.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("unknown timezone, scheduler falls back to local time",
			zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:         cron.New(opts...),
		reportingSvc: reportingSvc,
		exporter:     exporter,
		smsClient:    smsClient,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers and starts the scheduled jobs.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.closeDaybook); err != nil {
		s.logger.Error("failed to schedule day-book job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) closeDaybook() {
	s.logger.Info("generating day-book report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.DailyReport(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to generate day-book report", zap.Error(err))
		return
	}

	if s.exporter != nil {
		if err := s.exporter.AppendDailyReport(ctx, report); err != nil {
			s.logger.Error("failed to export day-book report", zap.Error(err))
		}
	}

	if s.smsClient != nil && s.cfg.SMS.ManagerMobile != "" {
		message := s.reportingSvc.FormatDailyReport(report)
		if _, err := s.smsClient.SendText(ctx, sms.SendTextRequest{To: s.cfg.SMS.ManagerMobile, Body: message}); err != nil {
			s.logger.Error("failed to send day-book report", zap.Error(err))
		} else {
			s.logger.Info("day-book report sent to manager")
		}
	}
}
