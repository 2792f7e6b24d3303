package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// env returns a LookupFunc over a fixed map.
func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: time.Second},
		Source: SourceConfig{
			Dirs:          []string{"data"},
			HeaderFile:    "header.csv",
			MaterialFile:  "material.csv",
			Encoding:      "euc-kr",
			Delimiter:     ",",
			Watch:         true,
			WatchDebounce: time.Second,
		},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if diff := cmp.Diff([]string{"data", "../data", "public/data"}, cfg.Source.Dirs); diff != "" {
		t.Errorf("Source.Dirs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Source.HeaderFile != "header.csv" || cfg.Source.MaterialFile != "material.csv" {
		t.Errorf("Source files = %q, %q", cfg.Source.HeaderFile, cfg.Source.MaterialFile)
	}
	if cfg.Source.Encoding != "euc-kr" {
		t.Errorf("Source.Encoding = %q, want euc-kr", cfg.Source.Encoding)
	}
	if cfg.Source.DelimiterRune() != ',' {
		t.Errorf("DelimiterRune() = %q, want ','", cfg.Source.DelimiterRune())
	}
	if !cfg.Source.Watch || cfg.Source.WatchDebounce != 500*time.Millisecond {
		t.Errorf("Source.Watch = %v, %v", cfg.Source.Watch, cfg.Source.WatchDebounce)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Rate.RequestsPerMinute != 300 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 300)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"SERVER_PORT":           "9090",
		"DATA_DIRS":             "/srv/exports, ./data ",
		"HEADER_FILE":           "orders.csv",
		"SOURCE_ENCODING":       "utf-8",
		"SOURCE_DELIMITER":      "tab",
		"SOURCE_WATCH_DEBOUNCE": "2s",
		"LOG_LEVEL":             "debug",
		"METRICS_ENABLED":       "false",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if diff := cmp.Diff([]string{"/srv/exports", "./data"}, cfg.Source.Dirs); diff != "" {
		t.Errorf("Source.Dirs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Source.HeaderFile != "orders.csv" {
		t.Errorf("Source.HeaderFile = %q", cfg.Source.HeaderFile)
	}
	if cfg.Source.DelimiterRune() != '\t' {
		t.Errorf("DelimiterRune() = %q, want tab", cfg.Source.DelimiterRune())
	}
	if cfg.Source.WatchDebounce != 2*time.Second {
		t.Errorf("Source.WatchDebounce = %v, want 2s", cfg.Source.WatchDebounce)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"PORT": "3000", "DATA_DIR": "/exports"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if diff := cmp.Diff([]string{"/exports"}, cfg.Source.Dirs); diff != "" {
		t.Errorf("Source.Dirs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{name: "bad integer", vars: map[string]string{"SERVER_PORT": "eighty"}, wantErr: "SERVER_PORT"},
		{name: "bad duration", vars: map[string]string{"SOURCE_WATCH_DEBOUNCE": "soon"}, wantErr: "SOURCE_WATCH_DEBOUNCE"},
		{name: "bad boolean", vars: map[string]string{"SOURCE_WATCH": "maybe"}, wantErr: "SOURCE_WATCH"},
		{name: "unknown encoding", vars: map[string]string{"SOURCE_ENCODING": "klingon"}, wantErr: "SOURCE_ENCODING"},
		{name: "multi-char delimiter", vars: map[string]string{"SOURCE_DELIMITER": ";;"}, wantErr: "SOURCE_DELIMITER"},
		{name: "quote delimiter", vars: map[string]string{"SOURCE_DELIMITER": `"`}, wantErr: "SOURCE_DELIMITER"},
		{name: "api key required without keys", vars: map[string]string{"REQUIRE_API_KEY": "true"}, wantErr: "API_KEYS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(env(tt.vars))
			if err == nil {
				t.Fatal("LoadFrom() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999
	cfg.Logging.Level = "verbose"
	cfg.Source.Dirs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_LEVEL", "DATA_DIRS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestDelimiterRune(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", ','},
		{",", ','},
		{";", ';'},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"|", '|'},
	}
	for _, tt := range tests {
		c := &SourceConfig{Delimiter: tt.in}
		if got := c.DelimiterRune(); got != tt.want {
			t.Errorf("DelimiterRune(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"s3cret-key"}

	str := cfg.String()
	if strings.Contains(str, "s3cret") {
		t.Error("String() should mask API keys")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
