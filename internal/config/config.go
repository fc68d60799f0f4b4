package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Lifecycle LifecycleConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// RateLimitConfig configures throttling of sensitive auth operations.
// An empty RedisURL keeps the counters in process memory.
type RateLimitConfig struct {
	RedisURL         string
	LoginMaxAttempts int
	LoginWindow      time.Duration
	ResetMaxAttempts int
	ResetWindow      time.Duration
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	MaxRetries int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency         int
	ExpirySweepInterval time.Duration
}

type LifecycleConfig struct {
	LockTerminalStatus bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "job_portal"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me"),
			TokenTTL:  getEnvAsDuration("JWT_TTL", "168h"),
		},
		RateLimit: RateLimitConfig{
			RedisURL:         getEnv("REDIS_URL", ""),
			LoginMaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:      getEnvAsDuration("LOGIN_WINDOW", "15m"),
			ResetMaxAttempts: getEnvAsInt("RESET_MAX_ATTEMPTS", 3),
			ResetWindow:      getEnvAsDuration("RESET_WINDOW", "1h"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "job_postings"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			MaxRetries: getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 5242880),
		},
		Worker: WorkerConfig{
			Concurrency:         getEnvAsInt("WORKER_CONCURRENCY", 2),
			ExpirySweepInterval: getEnvAsDuration("EXPIRY_SWEEP_INTERVAL", "5m"),
		},
		Lifecycle: LifecycleConfig{
			LockTerminalStatus: getEnvAsBool("LOCK_TERMINAL_STATUS", false),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// SemanticSearchEnabled reports whether both the embedding model and the
// vector store are configured.
func (c *Config) SemanticSearchEnabled() bool {
	return c.Gemini.APIKey != "" && c.Qdrant.URL != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
