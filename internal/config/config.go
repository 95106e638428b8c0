package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Server holds what the wellspringd binary needs. Values come from the
// environment, with a .env file honored when present.
type Server struct {
	Port      string
	DBPath    string
	SecretKey string
	Timezone  string
}

// Agent holds what the device agent needs. The API token and user ID
// live in the agent database, not here.
type Agent struct {
	DBPath       string
	ServerURL    string
	SyncInterval time.Duration
	Timezone     string
}

func LoadServer() Server {
	loadDotEnv()
	return Server{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", filepath.Join("data", "wellspring.db")),
		SecretKey: getEnv("SECRET_KEY", ""),
		Timezone:  getEnv("TZ", "UTC"),
	}
}

func LoadAgent() Agent {
	loadDotEnv()
	return Agent{
		DBPath:       getEnv("AGENT_DB_PATH", defaultAgentDBPath()),
		ServerURL:    getEnv("WELLSPRING_SERVER", "http://localhost:8080"),
		SyncInterval: getDurationEnv("SYNC_INTERVAL", 5*time.Minute),
		Timezone:     getEnv("TZ", "UTC"),
	}
}

func defaultAgentDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", "agent.db")
	}
	return filepath.Join(home, ".wellspring", "agent.db")
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("config: reading .env failed")
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		logrus.WithField(key, raw).Warn("config: invalid duration, using default")
		return fallback
	}
	return parsed
}
