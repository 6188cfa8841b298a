package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v, want info/console", cfg.Log)
	}
	if cfg.Ephemeris.Mode != "analytic" {
		t.Errorf("Ephemeris.Mode = %q, want analytic", cfg.Ephemeris.Mode)
	}
	if cfg.Ephemeris.Timeout != 30*time.Second {
		t.Errorf("Ephemeris.Timeout = %v, want 30s", cfg.Ephemeris.Timeout)
	}
	if cfg.Chart.Orbs != aspect.TableSymmetric {
		t.Errorf("Chart.Orbs = %q, want %q", cfg.Chart.Orbs, aspect.TableSymmetric)
	}
	if cfg.State.MaxHistory != 60 || cfg.State.MaxEvents != 50 {
		t.Errorf("State = %+v, want 60/50", cfg.State)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	set, err := cfg.Chart.AspectSet()
	if err != nil || set != aspect.AllKinds() {
		t.Errorf("AspectSet() = %v, %v, want all", set, err)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Ephemeris.Mode != "analytic" {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_SearchesHomeDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	path := filepath.Join(home, DirName, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("unset keys should keep defaults, Log.Format = %q", cfg.Log.Format)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
log:
  format: json
ephemeris:
  mode: auto
  timeout: 5s
chart:
  aspects: [conjunction, trine]
  orbs: legacy
  orb_overrides:
    square: 6
  dst: true
  latitude: 51.5
  longitude: -0.12
state:
  max_events: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Ephemeris.Mode != "auto" || cfg.Ephemeris.Timeout != 5*time.Second {
		t.Errorf("Ephemeris = %+v", cfg.Ephemeris)
	}
	if !cfg.Chart.DST || cfg.Chart.Latitude != 51.5 || cfg.Chart.Longitude != -0.12 {
		t.Errorf("Chart = %+v", cfg.Chart)
	}
	if cfg.State.MaxEvents != 10 || cfg.State.MaxHistory != 60 {
		t.Errorf("State = %+v", cfg.State)
	}

	opts, err := cfg.ChartOptions()
	if err != nil {
		t.Fatalf("ChartOptions() error = %v", err)
	}
	if want := aspect.NewSet(aspect.Conjunction, aspect.Trine); opts.Aspects != want {
		t.Errorf("Aspects = %v, want %v", opts.Aspects, want)
	}
	if opts.Orbs != aspect.TableLegacy || !opts.DST {
		t.Errorf("ChartOptions() = %+v", opts)
	}

	orbs, err := cfg.Chart.OrbMap()
	if err != nil {
		t.Fatalf("OrbMap() error = %v", err)
	}
	if orbs[aspect.Square] != 6 || len(orbs) != 1 {
		t.Errorf("OrbMap() = %v, want square:6", orbs)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "log:\n  level: debug\n")
	t.Setenv("LSNATAL_LOG_LEVEL", "warn")
	t.Setenv("LSNATAL_EPHEMERIS_MODE", "horizons")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Ephemeris.Mode != "horizons" {
		t.Errorf("Ephemeris.Mode = %q, want horizons", cfg.Ephemeris.Mode)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad level", "log:\n  level: loud\n", "Level"},
		{"bad mode", "ephemeris:\n  mode: oracle\n", "Mode"},
		{"bad orb table", "chart:\n  orbs: wide\n", "Orbs"},
		{"bad latitude", "chart:\n  latitude: 91\n", "Latitude"},
		{"unknown aspect", "chart:\n  aspects: [conjunction, novile]\n", "novile"},
		{"unknown orb override", "chart:\n  orb_overrides:\n    novile: 2\n", "novile"},
		{"orb out of range", "chart:\n  orb_overrides:\n    trine: 95\n", "orb override"},
		{"zero history", "state:\n  max_history: 0\n", "MaxHistory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Error("WriteDefault() should refuse to overwrite")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written defaults error = %v", err)
	}
	if cfg.Ephemeris.HorizonsURL != ephem.HorizonsAPIURL {
		t.Errorf("HorizonsURL = %q, want %q", cfg.Ephemeris.HorizonsURL, ephem.HorizonsAPIURL)
	}
	if cfg.Ephemeris.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Ephemeris.Timeout)
	}
}

func TestHelpers(t *testing.T) {
	cfg := Default()

	if got := cfg.Log.Logger().Level(); got != logging.LevelInfo {
		t.Errorf("Logger().Level() = %v, want INFO", got)
	}

	gw, err := cfg.Ephemeris.Gateway(logging.Discard())
	if err != nil {
		t.Fatalf("Gateway() error = %v", err)
	}
	if _, ok := gw.(*ephem.Analytic); !ok {
		t.Errorf("analytic mode gateway = %T, want *ephem.Analytic", gw)
	}

	cfg.Ephemeris.Mode = "auto"
	gw, err = cfg.Ephemeris.Gateway(logging.Discard())
	if err != nil {
		t.Fatalf("Gateway() error = %v", err)
	}
	if _, ok := gw.(*ephem.Composite); !ok {
		t.Errorf("auto mode gateway = %T, want *ephem.Composite", gw)
	}

	sc := cfg.State.Manager()
	if sc.MaxHistoryLen != 60 || sc.MaxEvents != 50 {
		t.Errorf("Manager() = %+v", sc)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
