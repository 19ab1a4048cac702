package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nfrund/folio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	resolver := config.NewResolver(config.DefaultProfiles(), "", nil)

	tests := []struct {
		host    string
		wantEnv config.Environment
		wantAPI string
	}{
		{host: "localhost", wantEnv: config.Development, wantAPI: "http://localhost:3000/api"},
		{host: "localhost:8080", wantEnv: config.Development, wantAPI: "http://localhost:3000/api"},
		{host: "127.0.0.1:8080", wantEnv: config.Development, wantAPI: "http://localhost:3000/api"},
		{host: "LOCALHOST", wantEnv: config.Development, wantAPI: "http://localhost:3000/api"},
		{host: "portfolio.example.com", wantEnv: config.Production, wantAPI: "https://portfolio-backend-cl6s.onrender.com/api"},
		{host: "192.168.1.10:8080", wantEnv: config.Production, wantAPI: "https://portfolio-backend-cl6s.onrender.com/api"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			env, endpoints := resolver.Resolve(tt.host)
			assert.Equal(t, tt.wantEnv, env)
			assert.Equal(t, tt.wantAPI, endpoints.APIURL)
		})
	}
}

func TestResolver_ResolveRequest(t *testing.T) {
	resolver := config.NewResolver(config.DefaultProfiles(), "", nil)

	env, endpoints := resolver.ResolveRequest("localhost:8080", true)
	assert.Equal(t, config.Development, env)
	assert.Equal(t, "http://localhost:3000/api", endpoints.APIURL)

	env, endpoints = resolver.ResolveRequest("localhost:8080", false)
	assert.Equal(t, config.Production, env)
	assert.Equal(t, "https://portfolio-backend-cl6s.onrender.com/api", endpoints.APIURL)

	forced := config.NewResolver(config.DefaultProfiles(), config.Development, nil)
	env, _ = forced.ResolveRequest("portfolio.example.com", false)
	assert.Equal(t, config.Development, env, "APP_ENV still wins")
}

func TestResolver_ForcedEnvironment(t *testing.T) {
	resolver := config.NewResolver(config.DefaultProfiles(), config.Development, nil)

	env, endpoints := resolver.Resolve("portfolio.example.com")
	assert.Equal(t, config.Development, env)
	assert.Equal(t, "http://localhost:3000", endpoints.BaseURL)
	assert.Equal(t, "http://localhost:3000/uploads/a.png", endpoints.ImageURL("/uploads/a.png"))
}

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "environments.yaml")
	content := `
production:
  api_url: https://api.example.com/api/
  base_url: https://api.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	profiles, err := config.LoadProfiles(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", profiles.Production.APIURL, "trailing slash is trimmed")
	assert.Equal(t, "https://api.example.com", profiles.Production.BaseURL)
	assert.Equal(t, config.DefaultProfiles().Development, profiles.Development, "missing sections keep defaults")

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("production: [unterminated"), 0o644))
		_, err := config.LoadProfiles(bad)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadProfiles(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestWatchProfiles_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "environments.yaml")
	require.NoError(t, os.WriteFile(path, []byte("production:\n  api_url: https://one.example.com/api\n"), 0o644))

	profiles, err := config.LoadProfiles(path)
	require.NoError(t, err)
	resolver := config.NewResolver(profiles, "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, config.WatchProfiles(ctx, path, resolver, nil))

	writeAtomic(t, path, "production:\n  api_url: https://two.example.com/api\n")

	require.Eventually(t, func() bool {
		return resolver.Profiles().Production.APIURL == "https://two.example.com/api"
	}, 5*time.Second, 20*time.Millisecond)

	// A broken write keeps the last good mapping.
	writeAtomic(t, path, "production: [")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, "https://two.example.com/api", resolver.Profiles().Production.APIURL)
}

// writeAtomic replaces path by renaming a sibling file into place, the way
// editors and config management tools do.
func writeAtomic(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}
