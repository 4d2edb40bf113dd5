package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets and connection parameters are required;
// everything else falls back to a default suited for local development.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret     string        // secret used to sign session tokens
	TokenTTL      time.Duration // session token lifetime
	BcryptCost    int           // bcrypt cost for password hashing
	AdminPassword string        // password used when seeding the admin row

	UploadDir       string // directory that receives booking photos
	UploadMaxBytes  int64  // maximum accepted photo size
	PricingSeedPath string // YAML file used to seed an empty catalog

	LogLevel  string
	LogFormat string

	RabbitMQURL          string // empty disables event publishing
	QueueConsumerEnabled bool
	BookingLogPath       string // file appended to by the booking event consumer

	CORSOrigins []string
}

// Load reads a local .env file when present and then builds a Config from
// the process environment.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	// A missing .env is normal outside of local development.
	_ = godotenv.Load()

	return Config{
		Env:    envStr("APP_ENV", "dev"),
		Port:   envStr("APP_PORT", "3000"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: envStr("DB_PORT", "3306"),
		DBName: must("DB_NAME"),

		JWTSecret:     must("JWT_SECRET"),
		TokenTTL:      envDur("TOKEN_TTL", 24*time.Hour),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		AdminPassword: envStr("ADMIN_PASSWORD", "admin123"),

		UploadDir:       envStr("UPLOAD_DIR", "uploads"),
		UploadMaxBytes:  int64(envInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
		PricingSeedPath: envStr("PRICING_SEED_PATH", "configs/pricing.yaml"),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "json"),

		RabbitMQURL:          rabbitURL(),
		QueueConsumerEnabled: envBool("QUEUE_CONSUMER_ENABLED", false),
		BookingLogPath:       envStr("BOOKING_LOG_PATH", "logs/booking.log"),

		CORSOrigins: splitList(envStr("CORS_ORIGINS", "*")),
	}
}

// rabbitURL accepts either RABBITMQ_URL or the older AMQP_URL name.
func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
