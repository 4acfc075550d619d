package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "videodl.log")
	log, err := New(Options{Level: "debug", Format: FormatJSON, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Debug("probe", zap.String("k", "v"))
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"probe"`) {
		t.Errorf("log file = %s", data)
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Options{Level: "loud"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at the fallback level")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled at the fallback level")
	}
}

func TestValidLevel(t *testing.T) {
	for level, expected := range map[string]bool{"debug": true, "warn": true, "error": true, "verbose": false} {
		if got := ValidLevel(level); got != expected {
			t.Errorf("ValidLevel(%q) = %v, expected %v", level, got, expected)
		}
	}
}

func TestSink(t *testing.T) {
	var lines []string
	log := zap.New(Sink(func(line string) { lines = append(lines, line) }))
	log.Debug("hidden")
	log.Info("Download finished", zap.String("output", "a.mp4"))

	if len(lines) != 1 {
		t.Fatalf("expected one mirrored line, got %q", lines)
	}
	if !strings.Contains(lines[0], "Download finished") || !strings.Contains(lines[0], "a.mp4") {
		t.Errorf("line = %q", lines[0])
	}
}

func TestGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(GinLogger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/ping" || fields["status"] != int64(http.StatusOK) || fields["method"] != http.MethodGet {
		t.Errorf("fields = %v", fields)
	}
}
