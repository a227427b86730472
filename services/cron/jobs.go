package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/waslhq/wasl-api/model"
)

// SweepSLABreaches materializes the derived SLA breach flag on active
// complaints past their due date. Runs every 15 minutes.
func (m *CronManager) SweepSLABreaches() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "sweep_sla_breaches"

	breached, err := m.complaints.SweepSLABreaches(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Flagged %d SLA breaches", breached))
}

// EnforceComplaintHolds re-applies the visa hold for every candidate with an
// active critical complaint. Catches holds missed at filing time, for example
// when a complaint was escalated to critical afterwards. Runs every 30
// minutes.
func (m *CronManager) EnforceComplaintHolds() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "enforce_complaint_holds"

	var candidateIDs []uint
	err := m.db.Model(&model.Complaint{}).
		Distinct("candidate_id").
		Where("priority = ? AND status IN ?", model.PriorityCritical, model.ActiveComplaintStatuses).
		Pluck("candidate_id", &candidateIDs).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query blocking complaints: %w", err))
		return
	}

	held := 0
	failed := 0
	for _, id := range candidateIDs {
		if err := m.complaints.EnforceHold(ctx, id); err != nil {
			log.Printf("[CRON] Failed to enforce hold for candidate %d: %v", id, err)
			failed++
			continue
		}
		held++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Checked %d candidates, enforced %d, failed %d", len(candidateIDs), held, failed))
}

// SweepDocumentExpiry syncs the stored document status with expiry dates and
// records renewal notices for critical documents expiring inside the departure
// risk window. Runs hourly. The expiry date stays authoritative for gate
// checks either way; this sweep keeps the flag and the notices current.
func (m *CronManager) SweepDocumentExpiry() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "sweep_document_expiry"

	now := time.Now()
	result := m.db.WithContext(ctx).Model(&model.Document{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", model.DocumentStatusActive, now).
		Update("status", model.DocumentStatusExpired)
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to flag expired documents: %w", result.Error))
		return
	}
	flagged := result.RowsAffected

	// Renewal notices for critical documents nearing expiry.
	windowEnd := now.AddDate(0, 0, m.cfg.DepartureRiskWindowDays)
	var expiring []model.Document
	err := m.db.WithContext(ctx).
		Where("type IN ? AND expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date < ?",
			model.CriticalDocumentTypes, now, windowEnd).
		Find(&expiring).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query expiring documents: %w", err))
		return
	}

	notified := 0
	for i := range expiring {
		var candidate model.Candidate
		if err := m.db.WithContext(ctx).First(&candidate, expiring[i].CandidateID).Error; err != nil {
			log.Printf("[CRON] Failed to load candidate %d for expiry notice: %v", expiring[i].CandidateID, err)
			continue
		}
		if model.IsTerminalStatus(candidate.Status) {
			continue
		}
		if err := m.notifier.NotifyDocumentExpiry(ctx, &candidate, &expiring[i]); err != nil {
			log.Printf("[CRON] Failed to record expiry notice for document %d: %v", expiring[i].ID, err)
			continue
		}
		notified++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Flagged %d expired documents, sent %d renewal notices", flagged, notified))
}

// CleanupOldData removes old operational data to keep the database clean.
// Runs daily at 2 AM. Pipeline records are never touched here; the audit
// trail and candidate history are kept indefinitely.
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"

	totalCleaned := 0

	// 1. Expired JWT tokens from blacklist (older than 30 days)
	cutoffTokens := time.Now().Add(-30 * 24 * time.Hour)
	result := m.db.Where("expires_at < ?", cutoffTokens).Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		log.Printf("[CRON] Failed to clean token blacklist: %v", result.Error)
	} else {
		log.Printf("[CRON] Cleaned %d expired tokens", result.RowsAffected)
		totalCleaned += int(result.RowsAffected)
	}

	// 2. Old cron job logs (keep only last 90 days)
	cutoffLogs := time.Now().Add(-90 * 24 * time.Hour)
	result = m.db.Where("created_at < ?", cutoffLogs).Delete(&model.CronJobLog{})
	if result.Error != nil {
		log.Printf("[CRON] Failed to clean cron logs: %v", result.Error)
	} else {
		log.Printf("[CRON] Cleaned %d old cron logs", result.RowsAffected)
		totalCleaned += int(result.RowsAffected)
	}

	// 3. Read notifications older than 90 days
	cutoffNotifications := time.Now().Add(-90 * 24 * time.Hour)
	result = m.db.Where("read = ? AND created_at < ?", true, cutoffNotifications).Delete(&model.UserNotification{})
	if result.Error != nil {
		log.Printf("[CRON] Failed to clean notifications: %v", result.Error)
	} else {
		log.Printf("[CRON] Cleaned %d old notifications", result.RowsAffected)
		totalCleaned += int(result.RowsAffected)
	}

	m.logJobComplete(jobName, fmt.Sprintf("Cleaned up %d total records", totalCleaned))
}
