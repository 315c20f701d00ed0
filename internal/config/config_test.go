package config

import (
	"log/slog"
	"testing"
	"time"
)

var allKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "HTTP_SHUTDOWN_TIMEOUT",
	"DB_DRIVER", "DB_DSN", "SQLITE_PATH", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"DB_CONN_MAX_LIFETIME", "DB_LOG_SQL", "ANCHOR_DATE", "LOOKBACK_DAYS",
	"BREAKER_MAX_FAILURES", "BREAKER_OPEN_TIMEOUT",
}

// clearEnv sets every known key to empty so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if got.HTTPShutdownTimeout != 10*time.Second {
		t.Errorf("HTTPShutdownTimeout = %v, want 10s", got.HTTPShutdownTimeout)
	}
	if got.Driver != "sqlite3" {
		t.Errorf("Driver = %q, want sqlite3", got.Driver)
	}
	if got.Path != "Resources/hawaii.sqlite" {
		t.Errorf("Path = %q, want Resources/hawaii.sqlite", got.Path)
	}
	if got.MaxOpenConns != 4 || got.MaxIdleConns != 4 {
		t.Errorf("MaxOpenConns/MaxIdleConns = %d/%d, want 4/4", got.MaxOpenConns, got.MaxIdleConns)
	}
	if got.LogSQL {
		t.Error("LogSQL = true, want false")
	}
	if !got.AnchorDate.IsZero() {
		t.Errorf("AnchorDate = %v, want zero (derive from dataset)", got.AnchorDate)
	}
	if got.LookbackDays != 365 {
		t.Errorf("LookbackDays = %d, want 365", got.LookbackDays)
	}
	if got.BreakerMaxFailures != 5 {
		t.Errorf("BreakerMaxFailures = %d, want 5", got.BreakerMaxFailures)
	}
	if got.BreakerOpenTimeout != 30*time.Second {
		t.Errorf("BreakerOpenTimeout = %v, want 30s", got.BreakerOpenTimeout)
	}
}

func TestLoadFromEnv_AppEnv_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
	}{
		{name: "staging", appEnv: "staging"},
		{name: "uppercase", appEnv: "DEV"},
		{name: "random", appEnv: "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestLoadFromEnv_AnchorDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANCHOR_DATE", " 2017-08-23 ")

		got, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v, want nil", err)
		}
		want := time.Date(2017, 8, 23, 0, 0, 0, 0, time.UTC)
		if !got.AnchorDate.Equal(want) {
			t.Errorf("AnchorDate = %v, want %v", got.AnchorDate, want)
		}
	})

	for _, in := range []string{"2017-02-30", "08/23/2017", "2017-8-23", "yesterday"} {
		t.Run("invalid "+in, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ANCHOR_DATE", in)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil for %q", in)
			}
		})
	}
}

func TestLoadFromEnv_NumericValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "lookback zero", key: "LOOKBACK_DAYS", val: "0"},
		{name: "lookback negative", key: "LOOKBACK_DAYS", val: "-1"},
		{name: "lookback garbage", key: "LOOKBACK_DAYS", val: "year"},
		{name: "max open conns garbage", key: "DB_MAX_OPEN_CONNS", val: "many"},
		{name: "conn lifetime garbage", key: "DB_CONN_MAX_LIFETIME", val: "forever"},
		{name: "breaker failures zero", key: "BREAKER_MAX_FAILURES", val: "0"},
		{name: "breaker timeout garbage", key: "BREAKER_OPEN_TIMEOUT", val: "soon"},
		{name: "log sql garbage", key: "DB_LOG_SQL", val: "maybe"},
		{name: "shutdown timeout garbage", key: "HTTP_SHUTDOWN_TIMEOUT", val: "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "  :9090  ")
	t.Setenv("SQLITE_PATH", "/data/hawaii.sqlite")
	t.Setenv("DB_LOG_SQL", "true")
	t.Setenv("LOOKBACK_DAYS", "30")
	t.Setenv("BREAKER_OPEN_TIMEOUT", "1m")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", got.HTTPAddr)
	}
	if got.Path != "/data/hawaii.sqlite" {
		t.Errorf("Path = %q, want /data/hawaii.sqlite", got.Path)
	}
	if !got.LogSQL {
		t.Error("LogSQL = false, want true")
	}
	if got.LookbackDays != 30 {
		t.Errorf("LookbackDays = %d, want 30", got.LookbackDays)
	}
	if got.BreakerOpenTimeout != time.Minute {
		t.Errorf("BreakerOpenTimeout = %v, want 1m", got.BreakerOpenTimeout)
	}
}

func TestParseLogLevel_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "info", in: "info", want: slog.LevelInfo},
		{name: "warn", in: "warn", want: slog.LevelWarn},
		{name: "warning", in: "warning", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "case insensitive", in: "DeBuG", want: slog.LevelDebug},
		{name: "trims whitespace", in: "  warn \n", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel_Invalid(t *testing.T) {
	for _, in := range []string{"", "nope", "warns", "1"} {
		got, err := parseLogLevel(in)
		if err == nil {
			t.Fatalf("parseLogLevel(%q) error = nil, want non-nil", in)
		}
		if got != slog.LevelInfo {
			t.Errorf("parseLogLevel(%q) = %v, want %v on error", in, got, slog.LevelInfo)
		}
	}
}

func TestLoadFromEnv_LogSQLRequiresSQLite(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		logSQL  string
		wantErr bool
	}{
		{name: "sqlite3 with logging", driver: "sqlite3", logSQL: "true"},
		{name: "default driver with logging", driver: "", logSQL: "true"},
		{name: "other driver without logging", driver: "sqlite", logSQL: "false"},
		{name: "other driver with logging", driver: "sqlite", logSQL: "true", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_DRIVER", tt.driver)
			t.Setenv("DB_LOG_SQL", tt.logSQL)

			_, err := LoadFromEnv()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFromEnv() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
