package database

import (
	"fmt"
	"log"
	"os"

	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedCampuses(); err != nil {
		return fmt.Errorf("failed to seed campuses: %w", err)
	}

	if err := s.SeedPrograms(); err != nil {
		return fmt.Errorf("failed to seed programs: %w", err)
	}

	if err := s.SeedTrades(); err != nil {
		return fmt.Errorf("failed to seed trades: %w", err)
	}

	if err := s.SeedOEPs(); err != nil {
		return fmt.Errorf("failed to seed OEPs: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default super admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		Role:         model.RoleSuperAdmin,
		TokenVersion: 0,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}

// SeedCampuses creates the training campuses
func (s *Seeder) SeedCampuses() error {
	var count int64
	if err := s.db.Model(&model.Campus{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Campuses already exist, skipping...")
		return nil
	}

	campuses := []model.Campus{
		{Name: "Islamabad Campus", Code: "ISB", City: "Islamabad"},
		{Name: "Lahore Campus", Code: "LHR", City: "Lahore"},
		{Name: "Karachi Campus", Code: "KHI", City: "Karachi"},
		{Name: "Peshawar Campus", Code: "PEW", City: "Peshawar"},
		{Name: "Quetta Campus", Code: "UET", City: "Quetta"},
	}

	if err := s.db.Create(&campuses).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d campuses\n", len(campuses))
	return nil
}

// SeedPrograms creates the employment programs
func (s *Seeder) SeedPrograms() error {
	var count int64
	if err := s.db.Model(&model.Program{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Programs already exist, skipping...")
		return nil
	}

	programs := []model.Program{
		{
			Name:        "Technical Workers Program",
			Code:        "TEC",
			Description: "Skilled technical workers for construction and industry",
			Country:     "Saudi Arabia",
		},
		{
			Name:        "Hospitality Workers Program",
			Code:        "HOS",
			Description: "Hotel and food service staff",
			Country:     "Saudi Arabia",
		},
		{
			Name:        "Domestic Workers Program",
			Code:        "DOM",
			Description: "Household and caregiving staff",
			Country:     "Saudi Arabia",
		},
	}

	if err := s.db.Create(&programs).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d programs\n", len(programs))
	return nil
}

// SeedTrades creates the vocational trades
func (s *Seeder) SeedTrades() error {
	var count int64
	if err := s.db.Model(&model.Trade{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Trades already exist, skipping...")
		return nil
	}

	trades := []model.Trade{
		{Name: "Welder", Code: "WLD"},
		{Name: "Electrician", Code: "ELC"},
		{Name: "Plumber", Code: "PLM"},
		{Name: "Mason", Code: "MSN"},
		{Name: "Carpenter", Code: "CRP"},
		{Name: "Heavy Driver", Code: "HDR"},
		{Name: "Steel Fixer", Code: "STF"},
		{Name: "Pipe Fitter", Code: "PPF"},
		{Name: "Scaffolder", Code: "SCF"},
		{Name: "Cook", Code: "COK"},
	}

	if err := s.db.Create(&trades).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d trades\n", len(trades))
	return nil
}

// SeedOEPs creates sample overseas employment promoters
func (s *Seeder) SeedOEPs() error {
	var count int64
	if err := s.db.Model(&model.OEP{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  OEPs already exist, skipping...")
		return nil
	}

	oeps := []model.OEP{
		{
			Name:          "Al-Falah Overseas Employment",
			LicenseNumber: "OEP-2301",
			ContactPerson: "Muhammad Aslam",
			Phone:         "+92-51-1234567",
			Email:         "info@alfalah-oep.pk",
		},
		{
			Name:          "Gulf Gateway Promoters",
			LicenseNumber: "OEP-2415",
			ContactPerson: "Saeed Khan",
			Phone:         "+92-42-7654321",
			Email:         "contact@gulfgateway.pk",
		},
		{
			Name:          "Crescent Manpower Services",
			LicenseNumber: "OEP-2502",
			ContactPerson: "Tariq Mehmood",
			Phone:         "+92-21-9876543",
			Email:         "hr@crescentmanpower.pk",
		},
	}

	if err := s.db.Create(&oeps).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d OEPs\n", len(oeps))
	return nil
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
