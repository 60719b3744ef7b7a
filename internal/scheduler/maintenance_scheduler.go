package scheduler

import (
	"github.com/ikkim/swapdonaterent-backend/internal/app/service"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// MaintenanceScheduler runs periodic housekeeping jobs.
type MaintenanceScheduler struct {
	cron                 *cron.Cron
	passwordResetService service.PasswordResetService
}

func NewMaintenanceScheduler(passwordResetService service.PasswordResetService) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:                 cron.New(),
		passwordResetService: passwordResetService,
	}
}

// Start registers the jobs and kicks off the cron loop.
func (s *MaintenanceScheduler) Start() error {
	// Purge expired and used password reset tokens every day at 03:00.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		purged, err := s.passwordResetService.PurgeExpired()
		if err != nil {
			logger.Error("Failed to purge expired reset tokens", err)
			return
		}

		logger.Info("Purged expired reset tokens", map[string]interface{}{
			"purged": purged,
		})
	})
	if err != nil {
		logger.Error("Failed to register reset token purge job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *MaintenanceScheduler) Stop() {
	logger.Info("Stopping maintenance scheduler...", nil)
	s.cron.Stop()
	logger.Info("Maintenance scheduler stopped", nil)
}
