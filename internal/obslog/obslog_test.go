package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceRestores(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	Named("rules").Info("move_check", zap.Bool("legal", true))
	restore()
	L().Info("dropped")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].LoggerName != "rules" || entries[0].Message != "move_check" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestBuildWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.log")
	logger, err := Build(Options{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Debug("http_request", zap.String("path", "/healthz"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"http_request"`) || !strings.Contains(string(raw), `"level":"debug"`) {
		t.Fatalf("unexpected log contents: %s", raw)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{"debug": zapcore.DebugLevel, " WARN ": zapcore.WarnLevel, "error": zapcore.ErrorLevel, "bogus": zapcore.InfoLevel}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
