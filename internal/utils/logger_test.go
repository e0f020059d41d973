package utils_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/config"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// captureOutput swaps the global logger for one writing into a buffer.
func captureOutput(fn func()) string {
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	}()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	fn()

	return buf.String()
}

func createTestConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{
			Name:        "annotate-test",
			Version:     "1.0.0",
			Environment: "testing",
		},
		Logging: config.LoggingSettings{
			Level:  "warn",
			Format: "json",
		},
	}
}

func TestInitLogger(t *testing.T) {
	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
	}()

	utils.InitLogger(createTestConfig())

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("InitLogger() level = %v, want %v", zerolog.GlobalLevel(), zerolog.WarnLevel)
	}

	cfg := createTestConfig()
	cfg.Logging.Level = "nonsense"
	utils.InitLogger(cfg)

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("InitLogger() with invalid level = %v, want %v", zerolog.GlobalLevel(), zerolog.InfoLevel)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	defer func() { log.Logger = original }()
	log.Logger = zerolog.New(&buf)

	logger := utils.RequestLogger("req-1", "42", "PUT", "/api/timeline-event/7")
	logger.Info().Msg("updating")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"user_id":"42"`, `"method":"PUT"`} {
		if !strings.Contains(out, want) {
			t.Errorf("RequestLogger output %s missing %s", out, want)
		}
	}
}

func TestLogHTTPRequest(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		status     int
		wantLevel  string
		wantOutput bool
	}{
		{name: "API success", path: "/api/card/1", status: 200, wantLevel: `"level":"info"`, wantOutput: true},
		{name: "Client error", path: "/api/card/1", status: 403, wantLevel: `"level":"warn"`, wantOutput: true},
		{name: "Server error", path: "/api/card/1", status: 500, wantLevel: `"level":"error"`, wantOutput: true},
		{name: "Non-API success", path: "/version", status: 200, wantLevel: `"level":"debug"`, wantOutput: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(func() {
				utils.LogHTTPRequest("req-1", "GET", tt.path, "127.0.0.1", "test", tt.status, 5*time.Millisecond)
			})

			if tt.wantOutput && !strings.Contains(out, tt.wantLevel) {
				t.Errorf("LogHTTPRequest() output %s missing %s", out, tt.wantLevel)
			}
		})
	}
}

func TestLogHTTPRequestSkipsHealthAboveDebug(t *testing.T) {
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	}()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	utils.LogHTTPRequest("req-1", "GET", "/health", "127.0.0.1", "probe", 200, time.Millisecond)

	if buf.Len() != 0 {
		t.Errorf("health probe should not be logged at info level, got %s", buf.String())
	}
}

func TestLogPanic(t *testing.T) {
	out := captureOutput(func() {
		utils.LogPanic(utils.RequestLogger("req-9", "", "GET", "/api/card/1"), "nil map", []byte("goroutine 1"))
	})

	if !strings.Contains(out, `"panic":"nil map"`) || !strings.Contains(out, "goroutine 1") || !strings.Contains(out, "req-9") {
		t.Errorf("LogPanic() output %s", out)
	}
}

func TestLogDBQuery(t *testing.T) {
	t.Run("Plain arguments are kept", func(t *testing.T) {
		out := captureOutput(func() {
			utils.LogDBQuery("SELECT id FROM timelines WHERE name = ?", []interface{}{"Releases"}, time.Millisecond, nil)
		})
		if !strings.Contains(out, "Releases") {
			t.Errorf("LogDBQuery() output %s should contain the argument", out)
		}
	})

	t.Run("Token queries are redacted", func(t *testing.T) {
		out := captureOutput(func() {
			utils.LogDBQuery("SELECT * FROM undo WHERE token = ?", []interface{}{"abc123"}, time.Millisecond, nil)
		})
		if strings.Contains(out, "abc123") || !strings.Contains(out, "[REDACTED]") {
			t.Errorf("LogDBQuery() output %s should be redacted", out)
		}
	})

	t.Run("Errors are logged at error level", func(t *testing.T) {
		out := captureOutput(func() {
			utils.LogDBQuery("DELETE FROM cards", nil, time.Millisecond, errors.New("locked"))
		})
		if !strings.Contains(out, `"level":"error"`) {
			t.Errorf("LogDBQuery() output %s should be at error level", out)
		}
	})
}

func TestLogDomainEvent(t *testing.T) {
	out := captureOutput(func() {
		utils.LogDomainEvent("timeline", "event_archived", 3, map[string]interface{}{"event_id": int64(11)})
	})

	for _, want := range []string{`"category":"timeline"`, `"event":"event_archived"`, `"user_id":3`, `"event_id":11`} {
		if !strings.Contains(out, want) {
			t.Errorf("LogDomainEvent() output %s missing %s", out, want)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	if err := utils.SetLogLevel("ERROR"); err != nil {
		t.Fatalf("SetLogLevel() error = %v", err)
	}
	if got := zerolog.GlobalLevel(); got != zerolog.ErrorLevel {
		t.Errorf("GlobalLevel() = %v, want error", got)
	}
	if err := utils.SetLogLevel("chatty"); err == nil {
		t.Error("SetLogLevel(chatty) should fail")
	}
}
