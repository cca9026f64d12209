package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Sessions
	CookieName      string
	SessionTTLHours int

	// Cloudinary (all three present switches uploads to cloud storage)
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Local upload fallback
	UploadDir string

	// First-run admin bootstrap. Only honored while the admins table is
	// empty; override these in any real deployment.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),

		CookieName:      getEnvOrDefault("SESSION_COOKIE_NAME", "learngate_session"),
		SessionTTLHours: getEnvAsIntOrDefault("SESSION_TTL_HOURS", 24),

		CloudinaryCloudName: getEnvOrDefault("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnvOrDefault("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnvOrDefault("CLOUDINARY_API_SECRET", ""),

		UploadDir: getEnvOrDefault("UPLOAD_DIR", "./public/uploads"),

		BootstrapAdminEmail:    getEnvOrDefault("BOOTSTRAP_ADMIN_EMAIL", "admin@admin.com"),
		BootstrapAdminPassword: getEnvOrDefault("BOOTSTRAP_ADMIN_PASSWORD", "admin"),
	}

	return cfg
}

// CloudConfigured reports whether every Cloudinary credential is present.
// The storage mode is decided once at startup from this; upload handlers
// never consult the environment again.
func (c *Config) CloudConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c *Config) SecureCookies() bool {
	return c.Env == "production"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
