package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/folio/internal/config"
)

// ConfigForTests returns a configuration for tests. Values from a .env.test
// file at the project root are applied first when it exists, then overrides.
// Every variable is set with t.Setenv so it is restored after the test.
func ConfigForTests(t *testing.T, overrides map[string]string) *config.Config {
	t.Helper()

	defaults := map[string]string{
		"SESSION_SECRET":     "a-very-secret-key-for-testing-!",
		"APP_ENV":            "",
		"ENVIRONMENTS_FILE":  "",
		"UPLOAD_STAGING_DIR": "",
	}
	for key, value := range defaults {
		t.Setenv(key, value)
	}

	if root, ok := projectRoot(); ok {
		if env, err := godotenv.Read(filepath.Join(root, ".env.test")); err == nil {
			for key, value := range env {
				t.Setenv(key, value)
			}
		}
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("building test config: %v", err)
	}
	return cfg
}

// projectRoot walks up from the working directory to the directory holding go.mod.
func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}
