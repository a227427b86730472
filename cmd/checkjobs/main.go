package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/waslhq/wasl-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Inspects recent background job runs and surfaces candidates blocked by
// breached complaints or expired documents. Meant for operators, not cron.
func main() {
	godotenv.Load()

	db, err := connectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	printRecentJobs(db)
	printBreachedComplaints(db)
	printExpiredDocuments(db)
}

func connectDB() (*gorm.DB, error) {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER_NAME", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "wasl")
	dbSSLMode := getEnv("DB_SSL_MODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func printRecentJobs(db *gorm.DB) {
	fmt.Println("========================================")
	fmt.Println("Recent background job runs (last 24h)")
	fmt.Println("========================================")

	var jobs []model.CronJobLog
	db.Where("started_at >= ?", time.Now().Add(-24*time.Hour)).
		Order("started_at DESC").Limit(50).Find(&jobs)

	if len(jobs) == 0 {
		fmt.Println("No job runs recorded in the last 24 hours.")
		return
	}

	for _, j := range jobs {
		line := fmt.Sprintf("[%s] %-28s %s", j.StartedAt.Format("15:04:05"), j.JobName, j.Status)
		if j.ErrorMsg != "" {
			line += " error: " + j.ErrorMsg
		}
		fmt.Println(line)
	}
}

func printBreachedComplaints(db *gorm.DB) {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("Complaints past SLA")
	fmt.Println("========================================")

	var complaints []model.Complaint
	db.Where("sla_breached = ? AND status NOT IN ?", true,
		[]model.ComplaintStatus{model.ComplaintResolved, model.ComplaintClosed}).
		Order("reported_at ASC").Find(&complaints)

	if len(complaints) == 0 {
		fmt.Println("None.")
		return
	}

	for _, c := range complaints {
		fmt.Printf("#%d candidate=%d priority=%s level=%d reported=%s subject=%q\n",
			c.ID, c.CandidateID, c.Priority, c.EscalationLevel,
			c.ReportedAt.Format("2006-01-02"), c.Subject)
	}
}

func printExpiredDocuments(db *gorm.DB) {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("Expired documents of active candidates")
	fmt.Println("========================================")

	type row struct {
		CandidateID uint
		Name        string
		Type        string
		ExpiryDate  time.Time
	}
	var rows []row
	db.Raw(`
		SELECT d.candidate_id, c.name, d.type, d.expiry_date
		FROM documents d
		JOIN candidates c ON c.id = d.candidate_id
		WHERE d.expiry_date < NOW()
		AND d.deleted_at IS NULL
		AND c.deleted_at IS NULL
		AND c.status NOT IN ('completed', 'rejected', 'dropped')
		ORDER BY d.expiry_date ASC
		LIMIT 100
	`).Scan(&rows)

	if len(rows) == 0 {
		fmt.Println("None.")
		return
	}

	for _, r := range rows {
		fmt.Printf("candidate=%d (%s) %s expired %s\n",
			r.CandidateID, r.Name, r.Type, r.ExpiryDate.Format("2006-01-02"))
	}
}
