package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/cli/testutil"
	"github.com/leapstack-labs/leapdash/internal/query"
)

// isolate runs the test from an empty directory so no stray leapdash.yaml
// is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	ResetConfig()
	dir := t.TempDir()
	testutil.Chdir(t, dir)
	return dir
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Duration("latency", 0, "")
	fs.String("policy", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Int("port", 0, "")
	fs.Bool("open", true, "")
	fs.Duration("session-ttl", 0, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, query.DefaultLatency, cfg.Latency)
	assert.Equal(t, query.PolicySupersede, cfg.Policy)
	assert.Equal(t, query.DefaultSuggestions, cfg.Suggestions)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)

	ui := cfg.GetUIConfig()
	assert.Equal(t, DefaultPort, ui.Port)
	assert.True(t, ui.AutoOpen)
	assert.Equal(t, 30*time.Minute, ui.SessionTTL)

	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolate(t)
	content := `
latency: 250ms
policy: last-write-wins
output: json
suggestions:
  - Show revenue
  - Show regions
ui:
  port: 9000
  auto_open: false
  session_ttl: 1h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapdash.yaml"), []byte(content), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Latency)
	assert.Equal(t, query.PolicyLastWriteWins, cfg.Policy)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, []string{"Show revenue", "Show regions"}, cfg.Suggestions)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
	assert.Equal(t, time.Hour, cfg.UI.SessionTTL)
	assert.Equal(t, "leapdash.yaml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_FileFoundUpward(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapdash.yml"), []byte("latency: 2s\n"), 0o600))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	testutil.Chdir(t, sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Latency)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	path := testutil.WriteConfig(t, "policy: lww\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, query.PolicyLastWriteWins, cfg.Policy)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Env(t *testing.T) {
	isolate(t)
	t.Setenv("LEAPDASH_LATENCY", "3s")
	t.Setenv("LEAPDASH_POLICY", "last-write-wins")
	t.Setenv("LEAPDASH_SUGGESTIONS", "revenue by month, top products ,")
	t.Setenv("LEAPDASH_UI_PORT", "9100")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Latency)
	assert.Equal(t, query.PolicyLastWriteWins, cfg.Policy)
	assert.Equal(t, []string{"revenue by month", "top products"}, cfg.Suggestions)
	assert.Equal(t, 9100, cfg.UI.Port)
}

func TestLoadConfig_Precedence(t *testing.T) {
	isolate(t)
	path := testutil.WriteConfig(t, "latency: 1s\noutput: markdown\nui:\n  port: 9000\n")
	t.Setenv("LEAPDASH_LATENCY", "2s")
	t.Setenv("LEAPDASH_OUTPUT", "yaml")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--latency", "5s", "--port", "9500", "--open=false"}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Latency, "flag beats env and file")
	assert.Equal(t, "yaml", cfg.OutputFormat, "env beats file")
	assert.Equal(t, 9500, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
}

func TestLoadConfig_UnsetFlagsIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("LEAPDASH_POLICY", "lww")

	fs := newFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, query.PolicyLastWriteWins, cfg.Policy)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown policy", "policy: fastest\n", "unknown policy"},
		{"bad duration", "latency: soon\n", "unable to decode config"},
		{"negative latency", "latency: -1s\n", "latency must be between"},
		{"too slow", "latency: 2m\n", "latency must be between"},
		{"bad output", "output: html\n", "invalid output format"},
		{"bad port", "ui:\n  port: 70000\n", "ui.port out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := LoadConfig(testutil.WriteConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_BlankSuggestionsFallBack(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(testutil.WriteConfig(t, "suggestions: [\"  \", \"\"]\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, query.DefaultSuggestions, cfg.Suggestions)
}

func TestGetUIConfig_FillsZeroValues(t *testing.T) {
	cfg := &Config{UI: &UIConfig{}}
	ui := cfg.GetUIConfig()
	assert.Equal(t, DefaultPort, ui.Port)
	assert.Equal(t, 30*time.Minute, ui.SessionTTL)

	assert.Equal(t, DefaultPort, (&Config{}).GetUIConfig().Port)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "latency", envKey("LEAPDASH_LATENCY"))
	assert.Equal(t, "ui.session_ttl", envKey("LEAPDASH_UI_SESSION_TTL"))
	assert.Equal(t, "history_file", envKey("LEAPDASH_HISTORY_FILE"))
}

func TestGetLogger(t *testing.T) {
	l := GetLogger(context.Background())
	require.NotNil(t, l)
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))

	want := slog.New(slog.DiscardHandler)
	assert.Same(t, want, GetLogger(WithLogger(context.Background(), want)))
	assert.Equal(t, loggerKey{}, LoggerKey())
}

func TestNewLogger_Levels(t *testing.T) {
	quiet := NewLogger(os.Stderr, false)
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, quiet.Enabled(context.Background(), slog.LevelWarn))

	loud := NewLogger(os.Stderr, true)
	assert.True(t, loud.Enabled(context.Background(), slog.LevelDebug))
}
