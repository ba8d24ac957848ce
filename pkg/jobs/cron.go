package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/wallet"
)

// CronManager manages scheduled jobs
type CronManager struct {
	cron      *cron.Cron
	api       *flipcash.Client
	wallet    *wallet.Service
	retention time.Duration
	logger    *log.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(api *flipcash.Client, walletSvc *wallet.Service, retention time.Duration, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}

	return &CronManager{
		cron:      cron.New(),
		api:       api,
		wallet:    walletSvc,
		retention: retention,
		logger:    logger,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	cm.logger.Println("Setting up cron jobs...")

	// Hourly: purge statement exports past retention
	_, err := cm.cron.AddFunc("0 * * * *", func() {
		cm.logger.Println("🕐 Running statement export purge...")

		removed, err := cm.wallet.PurgeExpired(cm.retention)
		if err != nil {
			cm.logger.Printf("❌ Export purge failed: %v", err)
			return
		}

		if removed > 0 {
			cm.logger.Printf("✅ Purged %d expired statement files", removed)
		}
	})

	if err != nil {
		return err
	}

	// Every 5 minutes: probe upstream API health
	_, err = cm.cron.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := cm.api.Health(ctx); err != nil {
			cm.logger.Printf("⚠️ Upstream API health check failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	cm.logger.Println("✅ Cron jobs configured successfully")
	cm.logger.Println("  - Hourly: purge expired statement exports")
	cm.logger.Println("  - Every 5 minutes: upstream health probe")

	return nil
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Println("🚀 Starting cron scheduler...")
	cm.cron.Start()
}

// Stop stops the cron scheduler
func (cm *CronManager) Stop() {
	cm.logger.Println("🛑 Stopping cron scheduler...")
	cm.cron.Stop()
}
