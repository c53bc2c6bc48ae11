package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	PublicHost        string `mapstructure:"PUBLIC_HOST"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCallerDB int    `mapstructure:"REDIS_CALLER_DB"`

	// Gemini configuration.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Google Cloud Speech-to-Text service account.
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Twilio webhook signature validation.
	TwilioAuthToken string `mapstructure:"TWILIO_AUTH_TOKEN"`

	// Call handling policy.
	MaxActiveCalls        int `mapstructure:"MAX_ACTIVE_CALLS"`
	ContextWindowTurns    int `mapstructure:"CONTEXT_WINDOW_TURNS"`
	ExtractionIntervalSec int `mapstructure:"EXTRACTION_INTERVAL_SECS"`
	ExtractionPassSec     int `mapstructure:"EXTRACTION_PASS_TIMEOUT_SECS"`
	FinalizeTimeoutSec    int `mapstructure:"FINALIZE_TIMEOUT_SECS"`
	MaxGeneratorFailures  int `mapstructure:"MAX_GENERATOR_FAILURES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("PUBLIC_HOST", "localhost:8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CALLER_DB", 0)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("MAX_ACTIVE_CALLS", 100)
	viper.SetDefault("CONTEXT_WINDOW_TURNS", 5)
	viper.SetDefault("EXTRACTION_INTERVAL_SECS", 5)
	viper.SetDefault("EXTRACTION_PASS_TIMEOUT_SECS", 15)
	viper.SetDefault("FINALIZE_TIMEOUT_SECS", 10)
	viper.SetDefault("MAX_GENERATOR_FAILURES", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
