package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// RateLimit is a limiter spec string, e.g. "100-M" for 100 requests per
	// minute per client IP.
	RateLimit string
	// TimerInterval is how often the live timer broadcast recomputes open
	// sessions.
	TimerInterval time.Duration
	// CORSOrigins is a comma-separated list of allowed origins; "*" allows all.
	CORSOrigins string
}

// LoadConfig loads configuration from environment variables and .env file if
// present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "wagetrack")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("TIMER_INTERVAL", "1s")
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	timerIntervalStr := viper.GetString("TIMER_INTERVAL")
	timerInterval, err := time.ParseDuration(timerIntervalStr)
	if err != nil || timerInterval <= 0 {
		timerInterval = time.Second
		log.Printf("Warning: Invalid value for TIMER_INTERVAL ('%s'). Defaulting to %s.\n", timerIntervalStr, timerInterval.String())
	}
	cfg.TimerInterval = timerInterval

	cfg.CORSOrigins = viper.GetString("CORS_ORIGINS")

	return cfg, nil
}
