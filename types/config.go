package types

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	ListenAddr     string
	StagingFile    string
	BodyLimit      int
	ReadBufferSize int
	Postgres       PostgresConfig
}

type LoaderConfig struct {
	MonitoringTime time.Duration
	PollInterval   time.Duration
	SourceDir      string
	ArchiveDir     string
	BadDir         string
	// MetricsAddr is where the loader serves /metrics. Empty disables it.
	MetricsAddr string
	Postgres    PostgresConfig
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Enabled reports whether a Postgres host is configured. Without one the
// binaries fall back to the in-memory store.
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", c.Host, c.Port, c.User, c.Password, c.DBName)
}

func PostgresConfigFromEnv() PostgresConfig {
	return PostgresConfig{
		Host:     os.Getenv("PG_HOST"),
		Port:     envInt("PG_PORT", 5432),
		User:     os.Getenv("PG_USER"),
		Password: os.Getenv("PG_PASS"),
		DBName:   os.Getenv("PG_DB_NAME"),
	}
}

func ServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		ListenAddr:     envString("SERVER_ADDR", ":8080"),
		StagingFile:    envString("STAGING_FILE", "temp.xml"),
		BodyLimit:      envInt("BODY_LIMIT_BYTES", 10<<20),
		ReadBufferSize: envInt("READ_BUFFER_BYTES", 256<<10),
		Postgres:       PostgresConfigFromEnv(),
	}
}

func LoaderConfigFromEnv() LoaderConfig {
	return LoaderConfig{
		MonitoringTime: envDuration("LOADER_MONITORING_TIME", 2*time.Second),
		PollInterval:   envDuration("LOADER_POLL_INTERVAL", time.Second),
		SourceDir:      envString("LOADER_SOURCE_DIR", "inbox"),
		ArchiveDir:     envString("LOADER_ARCHIVE_DIR", "archive"),
		BadDir:         envString("LOADER_BAD_DIR", "bad"),
		MetricsAddr:    os.Getenv("LOADER_METRICS_ADDR"),
		Postgres:       PostgresConfigFromEnv(),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
