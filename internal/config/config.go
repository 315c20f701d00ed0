package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const anchorDateLayout = "2006-01-02"

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// HTTPShutdownTimeout bounds graceful shutdown of in-flight requests.
	HTTPShutdownTimeout time.Duration

	Driver          string
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// LogSQL routes every statement through the debug-level logging connector.
	// Only valid with the sqlite3 driver.
	LogSQL bool

	// AnchorDate is the most recent date of the dataset. Zero means derive it
	// from the measurement table once at startup.
	AnchorDate   time.Time
	LookbackDays int

	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	shutdownTimeout, err := durationEnv("HTTP_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	driver := strings.TrimSpace(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "Resources/hawaii.sqlite"
	}

	maxOpenConns, err := intEnv("DB_MAX_OPEN_CONNS", "4")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := intEnv("DB_MAX_IDLE_CONNS", "4")
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := durationEnv("DB_CONN_MAX_LIFETIME", "0s")
	if err != nil {
		return Config{}, err
	}

	logSQLStr := strings.TrimSpace(os.Getenv("DB_LOG_SQL"))
	if logSQLStr == "" {
		logSQLStr = "false"
	}
	logSQL, err := strconv.ParseBool(logSQLStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_LOG_SQL %q: %w", logSQLStr, err)
	}
	// The statement logging connector wraps the go-sqlite3 driver directly.
	if logSQL && driver != "sqlite3" {
		return Config{}, fmt.Errorf("invalid DB_LOG_SQL with DB_DRIVER %q (statement logging requires sqlite3)", driver)
	}

	var anchor time.Time
	if s := strings.TrimSpace(os.Getenv("ANCHOR_DATE")); s != "" {
		anchor, err = time.Parse(anchorDateLayout, s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ANCHOR_DATE %q (expected yyyy-mm-dd): %w", s, err)
		}
	}

	lookbackDays, err := intEnv("LOOKBACK_DAYS", "365")
	if err != nil {
		return Config{}, err
	}
	if lookbackDays <= 0 {
		return Config{}, fmt.Errorf("invalid LOOKBACK_DAYS %d (must be > 0)", lookbackDays)
	}

	maxFailures, err := intEnv("BREAKER_MAX_FAILURES", "5")
	if err != nil {
		return Config{}, err
	}
	if maxFailures <= 0 {
		return Config{}, fmt.Errorf("invalid BREAKER_MAX_FAILURES %d (must be > 0)", maxFailures)
	}
	openTimeout, err := durationEnv("BREAKER_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:              appEnv,
		LogLevel:            level,
		HTTPAddr:            httpAddr,
		HTTPShutdownTimeout: shutdownTimeout,
		Driver:              driver,
		DSN:                 dsn,
		Path:                path,
		MaxOpenConns:        maxOpenConns,
		MaxIdleConns:        maxIdleConns,
		ConnMaxLifetime:     connMaxLifetime,
		LogSQL:              logSQL,
		AnchorDate:          anchor,
		LookbackDays:        lookbackDays,
		BreakerMaxFailures:  uint32(maxFailures),
		BreakerOpenTimeout:  openTimeout,
	}, nil
}

func intEnv(key, def string) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func durationEnv(key, def string) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
