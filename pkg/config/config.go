package config

import (
	"os"
	"path/filepath"
)

// Config holds all pipeline configuration
type Config struct {
	Environment  string
	Sources      SourcesConfig
	Warehouse    WarehouseConfig
	InsuranceAPI InsuranceAPIConfig
	Timezone     string
}

// SourcesConfig holds the locations of the extraction sources
type SourcesConfig struct {
	// DataDir contains appointments.csv, patients.csv and slots.csv
	DataDir string
	// SourceDBPath is the file-based operational database (doctor, specialty,
	// coverage_type, doctor_appointment). Created by the bootstrap when absent.
	SourceDBPath string
}

// WarehouseConfig holds the warehouse store configuration
type WarehouseConfig struct {
	Path string
}

// InsuranceAPIConfig holds the insurance-companies API configuration
type InsuranceAPIConfig struct {
	URL          string
	APIKey       string
	FallbackPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	dataDir := getEnv("ETL_DATA_DIR", "data")

	return &Config{
		Environment: getEnv("ETL_ENV", "development"),
		Sources: SourcesConfig{
			DataDir:      dataDir,
			SourceDBPath: getEnv("ETL_SOURCE_DB", filepath.Join(dataDir, "healthcare.db")),
		},
		Warehouse: WarehouseConfig{
			Path: getEnv("ETL_WAREHOUSE_PATH", filepath.Join("warehouse", "warehouse.db")),
		},
		InsuranceAPI: InsuranceAPIConfig{
			URL:          getEnv("ETL_API_URL", "https://my.api.mockaroo.com/insurance_companies.json"),
			APIKey:       getEnv("ETL_API_KEY", ""),
			FallbackPath: getEnv("ETL_API_FALLBACK", filepath.Join(dataDir, "api_sample.json")),
		},
		Timezone: getEnv("ETL_TIMEZONE", "Asia/Tashkent"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
