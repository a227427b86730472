package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/waslhq/wasl-api/config"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/services"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron       *cron.Cron
	db         *gorm.DB
	cfg        config.PipelineConfig
	complaints *services.ComplaintService
	notifier   *services.NotificationService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, cfg config.PipelineConfig, complaints *services.ComplaintService, notifier *services.NotificationService) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:       c,
		db:         db,
		cfg:        cfg,
		complaints: complaints,
		notifier:   notifier,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every 15 minutes: materialize complaint SLA breaches
	_, err := m.cron.AddFunc("0 */15 * * * *", func() {
		m.logJobStart("sweep_sla_breaches")
		m.SweepSLABreaches()
	})
	if err != nil {
		return err
	}

	// 2. Every 30 minutes: enforce visa holds for blocking complaints
	_, err = m.cron.AddFunc("0 */30 * * * *", func() {
		m.logJobStart("enforce_complaint_holds")
		m.EnforceComplaintHolds()
	})
	if err != nil {
		return err
	}

	// 3. Every hour: sync document expiry flags and send renewal notices
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("sweep_document_expiry")
		m.SweepDocumentExpiry()
	})
	if err != nil {
		return err
	}

	// 4. Daily at 2 AM: Cleanup old data
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		m.logJobStart("cleanup_old_data")
		m.CleanupOldData()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	// Log to database
	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
		Metadata:  "{}",
	}
	m.db.Create(&cronLog)
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": time.Now(),
			"message":      message,
		})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    err.Error(),
		})
}
