package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	AppPort        string
	AllowedOrigins string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSQLitePath   string
	DBMaxIdleConns int
	DBMaxOpenConns int

	JWTSecret          string
	JWTExpirationHours int

	NATSURL string

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	FeedCacheTTLSeconds int

	EventPollIntervalMs int
	TrashRetentionDays  int

	PublicBaseURL string
	UploadDir     string
	MaxUploadMB   int

	SMTPHost                string
	SMTPPort                int
	SMTPUser                string
	SMTPPassword            string
	SMTPFrom                string
	ReminderIntervalSeconds int

	LogLevel string
	LogFile  string
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppPort:        getEnv("APP_PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "smartnotes"),
		DBPassword:     getEnv("DB_PASSWORD", "smartnotes"),
		DBName:         getEnv("DB_NAME", "smartnotes"),
		DBSQLitePath:   getEnv("DB_SQLITE_PATH", "smartnotes.db"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		JWTSecret:          getEnv("JWT_SECRET", "your-super-secret-key-change-this-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),

		NATSURL: getEnv("NATS_URL", "nats://localhost:4222"),

		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		FeedCacheTTLSeconds: getEnvAsInt("FEED_CACHE_TTL_SECONDS", 30),

		EventPollIntervalMs: getEnvAsInt("EVENT_POLL_INTERVAL_MS", 1000),
		TrashRetentionDays:  getEnvAsInt("TRASH_RETENTION_DAYS", 30),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 5),

		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:                getEnv("SMTP_USER", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:                getEnv("SMTP_FROM", "reminders@smartnotes.local"),
		ReminderIntervalSeconds: getEnvAsInt("REMINDER_INTERVAL_SECONDS", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}
