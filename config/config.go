package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL      string
	REDIS_PASSWORD string
	REDIS_DB       string
	// Object storage (S3-compatible) for document files
	SPACES_ACCESS_KEY string
	SPACES_SECRET_KEY string
	SPACES_BUCKET     string
	SPACES_REGION     string
	SPACES_ENDPOINT   string
	// Pipeline tunables
	Pipeline PipelineConfig
}

// PipelineConfig carries the pipeline tunables. It is passed explicitly into
// the services that need it at construction time rather than read from
// globals.
type PipelineConfig struct {
	// BatchSize is the default capacity of a training batch.
	BatchSize int
	// AllowedBatchSizes are the capacities an allocation request may override
	// the default with.
	AllowedBatchSizes []int
	// DepartureRiskWindowDays blocks departure while a critical document
	// expires within this many days.
	DepartureRiskWindowDays int
}

// DefaultPipelineConfig is used when no env overrides are present.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BatchSize:               20,
		AllowedBatchSizes:       []int{10, 15, 20, 25, 30},
		DepartureRiskWindowDays: 30,
	}
}

// IsAllowedBatchSize reports whether size is an acceptable batch capacity.
func (p PipelineConfig) IsAllowedBatchSize(size int) bool {
	for _, s := range p.AllowedBatchSizes {
		if s == size {
			return true
		}
	}
	return false
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Redis
		REDIS_URL:      os.Getenv("REDIS_URL"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       os.Getenv("REDIS_DB"),
		// Object storage
		SPACES_ACCESS_KEY: os.Getenv("SPACES_ACCESS_KEY"),
		SPACES_SECRET_KEY: os.Getenv("SPACES_SECRET_KEY"),
		SPACES_BUCKET:     os.Getenv("SPACES_BUCKET"),
		SPACES_REGION:     os.Getenv("SPACES_REGION"),
		SPACES_ENDPOINT:   os.Getenv("SPACES_ENDPOINT"),
		// Pipeline
		Pipeline: pipelineFromEnv(),
	}

	return envVariables, nil
}

func pipelineFromEnv() PipelineConfig {
	cfg := DefaultPipelineConfig()

	if v := os.Getenv("WASL_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BatchSize = n
		}
	}

	if v := os.Getenv("WASL_ALLOWED_BATCH_SIZES"); v != "" {
		var sizes []int
		for _, part := range strings.Split(v, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n > 0 {
				sizes = append(sizes, n)
			}
		}
		if len(sizes) > 0 {
			cfg.AllowedBatchSizes = sizes
		}
	}

	if v := os.Getenv("WASL_DEPARTURE_RISK_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DepartureRiskWindowDays = n
		}
	}

	return cfg
}
