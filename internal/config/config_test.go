package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(envEnv, "")
	t.Setenv(envDataURL, "")
	t.Setenv(envFetchTimeout, "")
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataURL() != ProductionDataServiceURL {
		t.Errorf("expected production URL, got %s", cfg.DataURL())
	}
	if cfg.FetchTimeout() != 0 {
		t.Errorf("expected no timeout by default, got %v", cfg.FetchTimeout())
	}
}

func TestEnvSelectsLocalEndpoints(t *testing.T) {
	for _, env := range []string{"development", "test", "TEST"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(envEnv, env)
			cfg := DefaultConfig()
			if err := cfg.ApplyEnv(); err != nil {
				t.Fatal(err)
			}
			if cfg.DataURL() != LocalDataServiceURL {
				t.Errorf("DataURL() = %s, want %s", cfg.DataURL(), LocalDataServiceURL)
			}
			if cfg.JobURL() != LocalJobServiceURL {
				t.Errorf("JobURL() = %s, want %s", cfg.JobURL(), LocalJobServiceURL)
			}
		})
	}
}

func TestExplicitURLWins(t *testing.T) {
	t.Setenv(envEnv, "development")
	t.Setenv(envDataURL, "http://ratings.internal:9000")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.DataURL() != "http://ratings.internal:9000" {
		t.Errorf("unexpected DataURL %s", cfg.DataURL())
	}
}

func TestFetchTimeoutEnv(t *testing.T) {
	t.Setenv(envFetchTimeout, "15")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.FetchTimeout() != 15*time.Second {
		t.Errorf("expected 15s, got %v", cfg.FetchTimeout())
	}

	t.Setenv(envFetchTimeout, "-1")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv(envEnv, "")
	t.Setenv(envDataURL, "")
	t.Setenv(envDataDir, "")
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	cfg := DefaultConfig()
	cfg.Env = EnvDevelopment
	cfg.HistoryLimit = 7
	cfg.DataDir = "/tmp/tvr"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Env != EnvDevelopment || loaded.HistoryLimit != 7 || loaded.Dir() != "/tmp/tvr" {
		t.Errorf("unexpected config: %+v", loaded)
	}
	if loaded.DBPath() != filepath.Join("/tmp/tvr", "tvratings.db") {
		t.Errorf("unexpected DBPath %s", loaded.DBPath())
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("env = [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "TVRATINGS_ENV=development\nTVRATINGS_JOB_URL=http://jobs.local\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envEnv, "production")
	t.Setenv(envJobURL, "")
	os.Unsetenv(envJobURL)

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if os.Getenv(envEnv) != "production" {
		t.Errorf(".env must not override existing variables, got %q", os.Getenv(envEnv))
	}
	if os.Getenv(envJobURL) != "http://jobs.local" {
		t.Errorf("expected job URL from .env, got %q", os.Getenv(envJobURL))
	}
	os.Unsetenv(envJobURL)
}

func TestLoadNormalizesFileEnv(t *testing.T) {
	t.Setenv(envEnv, "")
	t.Setenv(envDataURL, "")
	t.Setenv(envJobURL, "")
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("env = \" Development \"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.DataURL() != LocalDataServiceURL {
		t.Errorf("DataURL() = %s, want %s", cfg.DataURL(), LocalDataServiceURL)
	}
}

func TestLocalIgnoresCase(t *testing.T) {
	cfg := &Config{Env: "Test"}
	if !cfg.Local() {
		t.Error("Local() should accept mixed-case env names")
	}
}
