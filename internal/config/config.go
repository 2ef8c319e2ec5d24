package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// DefaultAPIURL is the hosted TalentBridge backend.
const DefaultAPIURL = "https://talentbridge-w9yv.onrender.com/api/"

type Config struct {
	Host string // listen address; loopback unless set
	Port string

	APIURL         string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration

	SessionStore    string // file | db | memory
	SessionFile     string
	SessionDBDriver string // postgres | mysql | sqlite
	SessionDBDSN    string

	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	InsightsTTL  time.Duration
	InsightsCron string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RabbitMQURL     string
	UploadQueueSize int

	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and defaults")
	}

	return &Config{
		Host: getEnv("HOST", "127.0.0.1"),
		Port: getEnv("PORT", "8080"),

		APIURL:         getEnv("TALENTBRIDGE_API_URL", DefaultAPIURL),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		UploadTimeout:  getDuration("UPLOAD_TIMEOUT", 200*time.Second),

		SessionStore:    getEnv("SESSION_STORE", "file"),
		SessionFile:     getEnv("SESSION_FILE", "session.json"),
		SessionDBDriver: getEnv("SESSION_DB_DRIVER", "sqlite"),
		SessionDBDSN:    getEnv("SESSION_DB_DSN", "talentbridge.db"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		InsightsTTL:  getDuration("INSIGHTS_TTL", time.Hour),
		InsightsCron: getEnv("INSIGHTS_CRON", "@every 1h"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),

		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		UploadQueueSize: getInt("UPLOAD_QUEUE_SIZE", 16),

		CORSOrigins: getList("CORS_ORIGINS"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Addr is the listen address for the gateway's HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// SetupLogging applies level and format to the standard logrus logger.
func (c *Config) SetupLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Printf("⚠️  Unknown LOG_LEVEL %q, falling back to info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
