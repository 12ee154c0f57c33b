package config

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration. It is loaded once at startup and
// passed into services as an immutable value; no core code reads the
// environment directly.
type Config struct {
	App        AppConfig
	Assembly   AssemblyAIConfig
	Generation GenerationConfig
}

// AppConfig holds directories and pipeline tuning
type AppConfig struct {
	IncomingDir      string `envconfig:"INCOMING_DIR" default:"incoming"`
	ProcessedDir     string `envconfig:"PROCESSED_DIR" default:"processed_recordings"`
	DataDir          string `envconfig:"DATA_DIR" default:"data"`
	CoursesFile      string `envconfig:"COURSES_FILE" default:"courses.yaml"`
	ToleranceMinutes int    `envconfig:"SCHEDULE_TOLERANCE_MINUTES" default:"10" validate:"min=0,max=60"`
	Workers          int    `envconfig:"WORKERS" default:"2" validate:"min=1,max=16"`
	SummaryPrompt    string `envconfig:"SUMMARY_PROMPT" default:"Summarize the following class lecture for a student who missed it:\n\n{{transcript}}"`
	HighlightsPrompt string `envconfig:"HIGHLIGHTS_PROMPT" default:"List the key points of the following class lecture, one per line:\n\n{{transcript}}"`
}

// AssemblyAIConfig holds transcription service configuration
type AssemblyAIConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY"`
}

// GenerationConfig holds the summary/highlight generation service
// configuration
type GenerationConfig struct {
	APIKey         string `envconfig:"GEMINI_API_KEY"`
	BaseURL        string `envconfig:"GEMINI_API_URL" default:"https://generativelanguage.googleapis.com"`
	Model          string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	TimeoutSeconds int    `envconfig:"GENERATION_TIMEOUT_SECONDS" default:"30" validate:"min=1,max=300"`
	MaxRetries     int    `envconfig:"GENERATION_MAX_RETRIES" default:"3" validate:"min=0,max=10"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
