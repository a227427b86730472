package config

import "testing"

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()
	if cfg.BatchSize != 20 {
		t.Errorf("default BatchSize = %d, want 20", cfg.BatchSize)
	}
	if cfg.DepartureRiskWindowDays != 30 {
		t.Errorf("default DepartureRiskWindowDays = %d, want 30", cfg.DepartureRiskWindowDays)
	}
	want := []int{10, 15, 20, 25, 30}
	if len(cfg.AllowedBatchSizes) != len(want) {
		t.Fatalf("default AllowedBatchSizes = %v, want %v", cfg.AllowedBatchSizes, want)
	}
	for i, s := range want {
		if cfg.AllowedBatchSizes[i] != s {
			t.Errorf("AllowedBatchSizes[%d] = %d, want %d", i, cfg.AllowedBatchSizes[i], s)
		}
	}
}

func TestIsAllowedBatchSize(t *testing.T) {
	cfg := DefaultPipelineConfig()
	for _, s := range []int{10, 15, 20, 25, 30} {
		if !cfg.IsAllowedBatchSize(s) {
			t.Errorf("size %d should be allowed", s)
		}
	}
	for _, s := range []int{0, 5, 12, 35, -10} {
		if cfg.IsAllowedBatchSize(s) {
			t.Errorf("size %d should not be allowed", s)
		}
	}
}

func TestPipelineFromEnvOverrides(t *testing.T) {
	t.Setenv("WASL_BATCH_SIZE", "25")
	t.Setenv("WASL_ALLOWED_BATCH_SIZES", "5, 25, 50")
	t.Setenv("WASL_DEPARTURE_RISK_WINDOW_DAYS", "14")

	cfg := pipelineFromEnv()
	if cfg.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.BatchSize)
	}
	if cfg.DepartureRiskWindowDays != 14 {
		t.Errorf("DepartureRiskWindowDays = %d, want 14", cfg.DepartureRiskWindowDays)
	}
	want := []int{5, 25, 50}
	if len(cfg.AllowedBatchSizes) != len(want) {
		t.Fatalf("AllowedBatchSizes = %v, want %v", cfg.AllowedBatchSizes, want)
	}
	for i, s := range want {
		if cfg.AllowedBatchSizes[i] != s {
			t.Errorf("AllowedBatchSizes[%d] = %d, want %d", i, cfg.AllowedBatchSizes[i], s)
		}
	}
}

func TestPipelineFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("WASL_BATCH_SIZE", "not-a-number")
	t.Setenv("WASL_ALLOWED_BATCH_SIZES", "a,b,c")
	t.Setenv("WASL_DEPARTURE_RISK_WINDOW_DAYS", "-5")

	cfg := pipelineFromEnv()
	def := DefaultPipelineConfig()
	if cfg.BatchSize != def.BatchSize {
		t.Errorf("garbage BatchSize should fall back to default, got %d", cfg.BatchSize)
	}
	if cfg.DepartureRiskWindowDays != def.DepartureRiskWindowDays {
		t.Errorf("negative risk window should fall back to default, got %d", cfg.DepartureRiskWindowDays)
	}
	if len(cfg.AllowedBatchSizes) != len(def.AllowedBatchSizes) {
		t.Errorf("garbage AllowedBatchSizes should fall back to default, got %v", cfg.AllowedBatchSizes)
	}
}
