// Package config loads runtime settings from the environment and the
// analysis parameters from an embedded YAML file.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration loaded from environment variables.
// Analysis parameters (ownership assumptions, thresholds, weights) live in
// Params, not here.
type Config struct {
	DatabaseURL string

	ReliabilityPath string
	FuelPath        string
	ParamsPath      string // empty uses the embedded defaults
	DumpDir         string

	CSVOutputPath string
	TopDeals      int

	ScrapeMaxPages int
	ScrapeDelayMs  int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		ReliabilityPath: getEnv("RELIABILITY_CSV", "./data/reliability.csv"),
		FuelPath:        getEnv("FUEL_CSV", "./data/fuel_economy.csv"),
		ParamsPath:      getEnv("PARAMS_YAML", ""),
		DumpDir:         getEnv("DUMP_DIR", "./data/dumps"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/deals.csv"),
		TopDeals:      getEnvInt("TOP_DEALS", 15),

		ScrapeMaxPages: getEnvInt("SCRAPE_MAX_PAGES", 3),
		ScrapeDelayMs:  getEnvInt("SCRAPE_DELAY_MS", 2000),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
