package confs

import (
	"log/slog"
	"os"
	"time"

	"financehub/entities"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddr = "0.0.0.0:3536"
	defaultTokenTTL   = 24 * time.Hour
	defaultLogFile    = "financehub.log"
)

// Storage backends selectable with STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// LoadConfig loads environment variables from a .env file if present
// and validates essential settings when needed.
func LoadConfig() error {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not load .env", "error", err)
		}
	}
	return nil
}

// ServerConfig configures the backend service.
type ServerConfig struct {
	Addr           string
	AnonKey        string
	JWTSecret      string
	TokenTTL       time.Duration
	Storage        string
	RedisAddr      string
	RedisPassword  string
	ReactionPolicy entities.ReactionPolicy
}

// ClientConfig configures the remote data client used by the services.
type ClientConfig struct {
	URL     string
	APIKey  string
	LogFile string
}

func Server() ServerConfig {
	return ServerConfig{
		Addr:           getenv("SERVER_ADDR", defaultServerAddr),
		AnonKey:        os.Getenv("ANON_KEY"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       durationEnv("TOKEN_TTL", defaultTokenTTL),
		Storage:        getenv("STORAGE", StoragePostgres),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		ReactionPolicy: entities.ParseReactionPolicy(os.Getenv("REACTION_POLICY")),
	}
}

// Client reads the client settings. Missing URL or key are not an error here;
// the client built from them reports itself as not configured.
func Client() ClientConfig {
	return ClientConfig{
		URL:     os.Getenv("FINANCEHUB_URL"),
		APIKey:  os.Getenv("FINANCEHUB_ANON_KEY"),
		LogFile: getenv("FINANCEHUB_LOG_FILE", defaultLogFile),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
