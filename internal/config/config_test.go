package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"all empty", []string{"", "   "}, ""},
		{"first non empty", []string{"foo", "bar"}, "foo"},
		{"skips whitespace", []string{"   ", "bar"}, "bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := firstNonEmpty(tt.values...); got != tt.want {
				t.Fatalf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestLoadUsesEnvironmentDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("ADDR", "")
	t.Setenv("API_URL", "  http://catalog.local  ")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "100")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "1h")
	t.Setenv("DATABASE_CONN_MAX_IDLE_TIME", "30m")
	t.Setenv("DATABASE_USE_MOCK", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_LIFETIME", "45m")
	t.Setenv("SESSION_COOKIE_NAME", "custom_session")
	t.Setenv("SESSION_COOKIE_DOMAIN", "example.com")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("DISPLAY_TIMEZONE", "Europe/Berlin")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Catalog.APIURL != "http://catalog.local" {
		t.Fatalf("Catalog.APIURL = %q", cfg.Catalog.APIURL)
	}
	if cfg.Catalog.Timeout != 0 {
		t.Fatalf("Catalog.Timeout = %s, want no timeout", cfg.Catalog.Timeout)
	}
	if cfg.Database.URL != "postgres://example" {
		t.Fatalf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Database.MaxIdleConns != 10 {
		t.Fatalf("Database.MaxIdleConns = %d", cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns != 100 {
		t.Fatalf("Database.MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxLifetime != time.Hour {
		t.Fatalf("Database.ConnMaxLifetime = %s", cfg.Database.ConnMaxLifetime)
	}
	if cfg.Database.ConnMaxIdleTime != 30*time.Minute {
		t.Fatalf("Database.ConnMaxIdleTime = %s", cfg.Database.ConnMaxIdleTime)
	}
	if !cfg.Database.UseMock {
		t.Fatalf("Database.UseMock = %t, want true", cfg.Database.UseMock)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Session.Lifetime != 45*time.Minute {
		t.Fatalf("Session.Lifetime = %s", cfg.Session.Lifetime)
	}
	if cfg.Session.CookieName != "custom_session" {
		t.Fatalf("Session.CookieName = %q", cfg.Session.CookieName)
	}
	if cfg.Session.CookieDomain != "example.com" {
		t.Fatalf("Session.CookieDomain = %q", cfg.Session.CookieDomain)
	}
	if cfg.Session.CookieSecure {
		t.Fatalf("Session.CookieSecure = %t, want false", cfg.Session.CookieSecure)
	}
	if cfg.Display.Location().String() != "Europe/Berlin" {
		t.Fatalf("Display.Location = %s", cfg.Display.Location())
	}
	if cfg.Display.DateLayout != "1/2/2006" {
		t.Fatalf("Display.DateLayout = %q", cfg.Display.DateLayout)
	}
}

func TestLoadPrefersServerAddr(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("ADDR", ":7000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
}

func TestLoadAllowsMissingAPIURL(t *testing.T) {
	t.Setenv("API_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.APIURL != "" {
		t.Fatalf("Catalog.APIURL = %q, want empty", cfg.Catalog.APIURL)
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLoadReadsYAMLWithEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formulary.yaml")
	content := strings.Join([]string{
		"server:",
		"  addr: \":9100\"",
		"catalog:",
		"  api_url: http://from-file",
		"  timeout: 4s",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("API_URL", "http://from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Fatalf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Catalog.APIURL != "http://from-env" {
		t.Fatalf("Catalog.APIURL = %q, want env override", cfg.Catalog.APIURL)
	}
	if cfg.Catalog.Timeout != 4*time.Second {
		t.Fatalf("Catalog.Timeout = %s", cfg.Catalog.Timeout)
	}
}

func TestUsageListsVariables(t *testing.T) {
	usage := Usage()
	for _, name := range []string{"API_URL", "FETCH_TIMEOUT", "SESSION_COOKIE_NAME"} {
		if !strings.Contains(usage, name) {
			t.Fatalf("expected usage to mention %s: %s", name, usage)
		}
	}
}

func TestLoadTreatsBlankFlagsAsUnset(t *testing.T) {
	t.Setenv("DATABASE_USE_MOCK", "")
	t.Setenv("SESSION_COOKIE_SECURE", "  ")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.UseMock {
		t.Fatal("blank DATABASE_USE_MOCK should read as false")
	}
	if cfg.Session.CookieSecure {
		t.Fatal("blank SESSION_COOKIE_SECURE should read as false")
	}
}

func TestLoadRejectsMalformedFlag(t *testing.T) {
	t.Setenv("DATABASE_USE_MOCK", "sometimes")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "DATABASE_USE_MOCK") {
		t.Fatalf("expected DATABASE_USE_MOCK parse error, got %v", err)
	}
}

func TestFlagUnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Flag
	}{
		{"", false},
		{"true", true},
		{" 1 ", true},
		{"FALSE", false},
	}
	for _, tt := range tests {
		f := Flag(true)
		if err := f.UnmarshalText([]byte(tt.in)); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", tt.in, err)
		}
		if f != tt.want {
			t.Fatalf("UnmarshalText(%q) = %t, want %t", tt.in, f, tt.want)
		}
	}
}
