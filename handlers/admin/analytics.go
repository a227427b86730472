package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/database"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/utils/response"
	"gorm.io/gorm"
)

// GetOverviewAnalytics retrieves system-wide pipeline statistics
// GET /admin/analytics/overview
func GetOverviewAnalytics(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var stats struct {
		TotalCandidates    int64            `json:"total_candidates"`
		CandidatesByStatus map[string]int64 `json:"candidates_by_status"`
		TotalBatches       int64            `json:"total_batches"`
		OpenBatches        int64            `json:"open_batches"`
		OpenComplaints     int64            `json:"open_complaints"`
		SLABreaches        int64            `json:"sla_breaches"`
		DeparturesTotal    int64            `json:"departures_total"`
		ArrivalsConfirmed  int64            `json:"arrivals_confirmed"`
		NewThisWeek        int64            `json:"new_this_week"`
	}
	stats.CandidatesByStatus = make(map[string]int64)

	db.Model(&model.Candidate{}).Count(&stats.TotalCandidates)

	type statusCount struct {
		Status string
		Count  int64
	}
	var statusCounts []statusCount
	db.Model(&model.Candidate{}).Select("status, COUNT(*) as count").Group("status").Scan(&statusCounts)
	for _, sc := range statusCounts {
		stats.CandidatesByStatus[sc.Status] = sc.Count
	}

	db.Model(&model.Batch{}).Count(&stats.TotalBatches)
	db.Model(&model.Batch{}).Where("status = ?", model.BatchStatusOpen).Count(&stats.OpenBatches)
	db.Model(&model.Complaint{}).
		Where("status NOT IN ?", []model.ComplaintStatus{model.ComplaintResolved, model.ComplaintClosed}).
		Count(&stats.OpenComplaints)
	db.Model(&model.Complaint{}).Where("sla_breached = ?", true).Count(&stats.SLABreaches)
	db.Model(&model.Departure{}).Count(&stats.DeparturesTotal)
	db.Model(&model.Departure{}).Where("arrival_confirmed = ?", true).Count(&stats.ArrivalsConfirmed)
	db.Model(&model.Candidate{}).
		Where("created_at >= ?", time.Now().Add(-7*24*time.Hour)).
		Count(&stats.NewThisWeek)

	return response.SuccessWithMessage(c, "Overview analytics retrieved successfully", stats)
}

// GetFunnelAnalytics retrieves stage-by-stage pipeline conversion
// GET /admin/analytics/funnel
func GetFunnelAnalytics(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var analytics struct {
		Stages []struct {
			Status  string `json:"status"`
			Current int64  `json:"current"`
			Reached int64  `json:"reached"`
		} `json:"stages"`
		Rejected      int64 `json:"rejected"`
		Dropped       int64 `json:"dropped"`
		IntakeByMonth []struct {
			Month string `json:"month"`
			Count int64  `json:"count"`
		} `json:"intake_by_month"`
		ByCampus []struct {
			CampusID   uint   `json:"campus_id"`
			CampusName string `json:"campus_name"`
			Candidates int64  `json:"candidates"`
			Departed   int64  `json:"departed"`
		} `json:"by_campus"`
	}

	// Per-stage counts: how many sit at the stage now, and how many ever
	// reached it (from the transition log).
	for _, status := range model.PipelinePath {
		var stage struct {
			Status  string `json:"status"`
			Current int64  `json:"current"`
			Reached int64  `json:"reached"`
		}
		stage.Status = string(status)
		db.Model(&model.Candidate{}).Where("status = ?", status).Count(&stage.Current)
		if status == model.StatusNew {
			// Everyone starts here
			db.Model(&model.Candidate{}).Count(&stage.Reached)
		} else {
			db.Model(&model.StatusTransitionLog{}).
				Where("to_status = ?", status).
				Distinct("candidate_id").
				Count(&stage.Reached)
		}
		analytics.Stages = append(analytics.Stages, stage)
	}

	db.Model(&model.Candidate{}).Where("status = ?", model.StatusRejected).Count(&analytics.Rejected)
	db.Model(&model.Candidate{}).Where("status = ?", model.StatusDropped).Count(&analytics.Dropped)

	// Intake by month (last 12 months)
	db.Raw(`
		SELECT TO_CHAR(created_at, 'YYYY-MM') as month, COUNT(*) as count
		FROM candidates
		WHERE created_at >= NOW() - INTERVAL '12 months'
		AND deleted_at IS NULL
		GROUP BY TO_CHAR(created_at, 'YYYY-MM')
		ORDER BY month ASC
	`).Scan(&analytics.IntakeByMonth)

	// Per-campus throughput
	db.Raw(`
		SELECT cp.id as campus_id, cp.name as campus_name,
			   COUNT(cd.id) as candidates,
			   COUNT(cd.id) FILTER (WHERE cd.status IN ('departed', 'completed')) as departed
		FROM campuses cp
		LEFT JOIN candidates cd ON cd.campus_id = cp.id AND cd.deleted_at IS NULL
		WHERE cp.deleted_at IS NULL
		GROUP BY cp.id, cp.name
		ORDER BY candidates DESC
	`).Scan(&analytics.ByCampus)

	return response.SuccessWithMessage(c, "Funnel analytics retrieved successfully", analytics)
}

// GetComplaintAnalytics retrieves complaint handling analytics
// GET /admin/analytics/complaints
func GetComplaintAnalytics(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var analytics struct {
		TotalComplaints int64 `json:"total_complaints"`
		ByPriority      []struct {
			Priority string `json:"priority"`
			Count    int64  `json:"count"`
		} `json:"by_priority"`
		ByStatus []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		} `json:"by_status"`
		SLABreaches        int64   `json:"sla_breaches"`
		Escalated          int64   `json:"escalated"`
		AvgResolutionDays  float64 `json:"avg_resolution_days"`
		FiledThisWeek      int64   `json:"filed_this_week"`
		ResolvedThisWeek   int64   `json:"resolved_this_week"`
		CandidatesOnHold   int64   `json:"candidates_on_hold"`
		ComplaintsByCampus []struct {
			CampusName string `json:"campus_name"`
			Count      int64  `json:"count"`
		} `json:"complaints_by_campus"`
	}

	db.Model(&model.Complaint{}).Count(&analytics.TotalComplaints)

	db.Model(&model.Complaint{}).
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&analytics.ByPriority)

	db.Model(&model.Complaint{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&analytics.ByStatus)

	db.Model(&model.Complaint{}).Where("sla_breached = ?", true).Count(&analytics.SLABreaches)
	db.Model(&model.Complaint{}).Where("escalation_level > 0").Count(&analytics.Escalated)

	db.Raw(`
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - reported_at)) / 86400), 0)
		FROM complaints
		WHERE resolved_at IS NOT NULL
		AND deleted_at IS NULL
	`).Scan(&analytics.AvgResolutionDays)

	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	db.Model(&model.Complaint{}).Where("reported_at >= ?", weekAgo).Count(&analytics.FiledThisWeek)
	db.Model(&model.Complaint{}).Where("resolved_at >= ?", weekAgo).Count(&analytics.ResolvedThisWeek)

	// Candidates blocked from advancing by a critical complaint
	db.Model(&model.Complaint{}).
		Where("priority = ? AND status NOT IN ?", model.PriorityCritical,
			[]model.ComplaintStatus{model.ComplaintResolved, model.ComplaintClosed}).
		Distinct("candidate_id").
		Count(&analytics.CandidatesOnHold)

	db.Raw(`
		SELECT cp.name as campus_name, COUNT(c.id) as count
		FROM complaints c
		JOIN candidates cd ON c.candidate_id = cd.id
		JOIN campuses cp ON cd.campus_id = cp.id
		WHERE c.deleted_at IS NULL
		GROUP BY cp.name
		ORDER BY count DESC
		LIMIT 10
	`).Scan(&analytics.ComplaintsByCampus)

	return response.SuccessWithMessage(c, "Complaint analytics retrieved successfully", analytics)
}

// GetDepartureAnalytics retrieves departure and post-departure analytics
// GET /admin/analytics/departures
func GetDepartureAnalytics(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var analytics struct {
		TotalDepartures   int64   `json:"total_departures"`
		Departed          int64   `json:"departed"`
		Scheduled         int64   `json:"scheduled"`
		ArrivalsConfirmed int64   `json:"arrivals_confirmed"`
		PostDeparture     int64   `json:"post_departure_records"`
		AvgMonthlySalary  float64 `json:"avg_monthly_salary"`
		TotalRemittances  int64   `json:"total_remittances"`
		RemittanceVolume  float64 `json:"remittance_volume"`
		DeparturesByMonth []struct {
			Month string `json:"month"`
			Count int64  `json:"count"`
		} `json:"departures_by_month"`
		TopDestinations []struct {
			Destination string `json:"destination"`
			Count       int64  `json:"count"`
		} `json:"top_destinations"`
	}

	db.Model(&model.Departure{}).Count(&analytics.TotalDepartures)
	db.Model(&model.Departure{}).Where("status = ?", model.DepartureDeparted).Count(&analytics.Departed)
	db.Model(&model.Departure{}).Where("status = ?", model.DepartureScheduled).Count(&analytics.Scheduled)
	db.Model(&model.Departure{}).Where("arrival_confirmed = ?", true).Count(&analytics.ArrivalsConfirmed)
	db.Model(&model.PostDeparture{}).Count(&analytics.PostDeparture)

	db.Model(&model.PostDeparture{}).
		Select("COALESCE(AVG(monthly_salary), 0)").
		Where("monthly_salary > 0").
		Scan(&analytics.AvgMonthlySalary)

	db.Model(&model.Remittance{}).Count(&analytics.TotalRemittances)
	db.Model(&model.Remittance{}).Select("COALESCE(SUM(amount), 0)").Scan(&analytics.RemittanceVolume)

	db.Raw(`
		SELECT TO_CHAR(departed_at, 'YYYY-MM') as month, COUNT(*) as count
		FROM departures
		WHERE departed_at IS NOT NULL
		AND departed_at >= NOW() - INTERVAL '12 months'
		AND deleted_at IS NULL
		GROUP BY TO_CHAR(departed_at, 'YYYY-MM')
		ORDER BY month ASC
	`).Scan(&analytics.DeparturesByMonth)

	db.Raw(`
		SELECT destination, COUNT(*) as count
		FROM departures
		WHERE destination != ''
		AND deleted_at IS NULL
		GROUP BY destination
		ORDER BY count DESC
		LIMIT 10
	`).Scan(&analytics.TopDestinations)

	return response.SuccessWithMessage(c, "Departure analytics retrieved successfully", analytics)
}
