package configs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "flowsync-dev-secret"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set when GO_ENV=production")

type Config struct {
	Env          string
	Port         int
	FrontendURL  string
	LogDir       string
	RateLimitMax int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisPassword string
	CacheTTL      time.Duration

	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int
	// true kalau JWT_SECRET tidak diset dan secret default dipakai
	InsecureJWTSecret bool

	// Admin awal; dilewati kalau AdminPassword kosong.
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	cfg := Config{
		Env:          getString("GO_ENV", "development"),
		Port:         getInt("PORT", 3000),
		FrontendURL:  getString("FRONTEND_URL", "http://localhost:5500"),
		LogDir:       getString("LOG_DIR", "logs"),
		RateLimitMax: getInt("RATE_LIMIT_MAX", 100),

		DBHost:     getString("DB_HOST", "localhost"),
		DBPort:     getInt("DB_PORT", 5432),
		DBUser:     getString("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getString("DB_NAME", "flowsync"),
		DBSSLMode:  getString("DB_SSLMODE", "disable"),

		RedisEnabled:  getBool("REDIS_ENABLED", false),
		RedisHost:     getString("REDIS_HOST", "localhost"),
		RedisPort:     getInt("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),

		JWTSecret:    getString("JWT_SECRET", defaultJWTSecret),
		JWTExpiresIn: getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		BcryptCost:   getInt("BCRYPT_COST", 10),

		AdminUsername: getString("ADMIN_USERNAME", "admin"),
		AdminEmail:    getString("ADMIN_EMAIL", "admin@flowsync.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminFullName: getString("ADMIN_FULL_NAME", "Administrator"),
	}
	cfg.InsecureJWTSecret = cfg.JWTSecret == defaultJWTSecret
	return cfg
}

// Validate menolak konfigurasi yang tidak aman untuk production.
func (c Config) Validate() error {
	if c.InsecureJWTSecret && c.Env == "production" {
		return ErrInsecureJWTSecret
	}
	return nil
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

// ParseDuration menerima durasi Go ("90m", "12h") dan hari penuh ("7d"),
// format yang dipakai JWT_EXPIRES_IN.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
