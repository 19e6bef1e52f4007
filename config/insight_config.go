package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// generateInstanceID creates a unique instance ID using hostname and PID
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "insight"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	MongoDBURL  string
	MongoDBName string
	RedisURL    string

	// Auth (optional, API group is open when no secret is set)
	AuthEnabled bool
	JWTSecret   string

	// OpenAI (optional topic labeling)
	OpenAIAPIKey   string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeoutSec  int

	// Instance
	InstanceID string

	// Artifacts
	ArtifactDir string

	// Analysis
	TopicMinK        int
	TopicMaxK        int
	TopicVocabSize   int
	ClusterEps       float64
	ClusterMinPoints int

	// Cache
	CacheReportTTLMin int

	// Archive
	ArchiveTTLDays int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	jwtSecret := getEnv("JWT_SECRET", "")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "insight"),
		RedisURL:    getEnv("REDIS_URL", ""),

		// Auth
		AuthEnabled: getEnvBool("AUTH_ENABLED", jwtSecret != ""),
		JWTSecret:   jwtSecret,

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 256),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
		LLMTimeoutSec:  getEnvInt("LLM_TIMEOUT_SEC", 20),

		// Instance
		InstanceID: getEnv("INSTANCE_ID", generateInstanceID()),

		// Artifacts
		ArtifactDir: getEnv("ARTIFACT_DIR", "data/artifacts"),

		// Analysis
		TopicMinK:        getEnvInt("TOPIC_MIN_K", 3),
		TopicMaxK:        getEnvInt("TOPIC_MAX_K", 10),
		TopicVocabSize:   getEnvInt("TOPIC_VOCAB_SIZE", 1000),
		ClusterEps:       getEnvFloat("CLUSTER_EPS", 0.5),
		ClusterMinPoints: getEnvInt("CLUSTER_MIN_POINTS", 2),

		// Cache
		CacheReportTTLMin: getEnvInt("CACHE_REPORT_TTL_MIN", 30),

		// Archive
		ArchiveTTLDays: getEnvInt("ARCHIVE_TTL_DAYS", 90),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// ReportTTL returns the Redis report cache TTL.
func (c *Config) ReportTTL() time.Duration {
	return time.Duration(c.CacheReportTTLMin) * time.Minute
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
