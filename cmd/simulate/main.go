// Command simulate drives a running api-server with concurrent patients
// racing for the same slots, then checks no slot ended up double booked.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/config"
	"github.com/hackgods/doctor-booking/internal/logging"
)

type SimConfig struct {
	APIBaseURL    string
	Duration      time.Duration
	Workers       int
	Patients      int
	DaysAhead     int
	BookingRatio  float64
	ConfirmRatio  float64
	ReadRatio     float64
	HotSlotsRatio float64 // share of bookings aimed at a handful of contested slots
}

func main() {
	_ = godotenv.Load()
	log := logging.New(getEnv("APP_ENV", "dev"), getEnv("LOG_LEVEL", "info"))

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	authCfg, err := config.LoadAuth()
	if err != nil {
		log.Fatal().Err(err).Msg("auth config")
	}
	tokens := auth.NewTokens(authCfg.JWTSecret, authCfg.TokenTTL)

	log.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("confirm", cfg.ConfirmRatio).
		Float64("read", cfg.ReadRatio).
		Msg("simulator starting")

	client := &apiClient{
		baseURL: cfg.APIBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		tokens:  tokens,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := loadDataPool(ctx, client, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	log.Info().Int("doctors", len(pool.Doctors)).Int("slots", len(pool.Slots)).Msg("data pool loaded")

	sim := &Simulator{config: cfg, pool: pool, client: client, log: log}
	sim.Run()
	sim.PrintReport(os.Stdout)

	dupes, err := sim.VerifyNoDoubleBooking(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("verify bookings")
	}
	if dupes > 0 {
		log.Error().Int("slots", dupes).Msg("double booked slots found")
		os.Exit(1)
	}
	log.Info().Msg("no slot holds more than one active booking")
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:    getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:      getDuration("SIM_DURATION", 30*time.Second),
		Workers:       getInt("SIM_WORKERS", 10),
		Patients:      getInt("SIM_PATIENTS", 500),
		DaysAhead:     getInt("SIM_DAYS_AHEAD", 7),
		BookingRatio:  getFloat("SIM_BOOKING_RATIO", 0.5),
		ConfirmRatio:  getFloat("SIM_CONFIRM_RATIO", 0.2),
		ReadRatio:     getFloat("SIM_READ_RATIO", 0.3),
		HotSlotsRatio: getFloat("SIM_HOT_SLOTS_RATIO", 0.3),
	}

	total := cfg.BookingRatio + cfg.ConfirmRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.ConfirmRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.Patients <= 0 {
		return fmt.Errorf("SIM_PATIENTS must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
