package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Environment identifies which portfolio API deployment a request talks to.
type Environment string

const (
	// Development is the API running on the developer's machine.
	Development Environment = "development"
	// Production is the deployed API.
	Production Environment = "production"
)

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	return e == Development || e == Production
}

// Endpoints are the two URLs the front-end needs: the REST root and the
// origin that relative image paths are resolved against.
type Endpoints struct {
	APIURL  string `yaml:"api_url" json:"API_URL"`
	BaseURL string `yaml:"base_url" json:"BASE_URL"`
}

// ImageURL resolves a relative image path against the base URL.
func (e Endpoints) ImageURL(path string) string {
	return e.BaseURL + path
}

// Profiles is the static hostname-independent mapping of environments to endpoints.
type Profiles struct {
	Development Endpoints `yaml:"development"`
	Production  Endpoints `yaml:"production"`
}

// DefaultProfiles returns the built-in endpoint mapping.
func DefaultProfiles() Profiles {
	return Profiles{
		Development: Endpoints{
			APIURL:  "http://localhost:3000/api",
			BaseURL: "http://localhost:3000",
		},
		Production: Endpoints{
			APIURL:  "https://portfolio-backend-cl6s.onrender.com/api",
			BaseURL: "https://portfolio-backend-cl6s.onrender.com",
		},
	}
}

// For returns the endpoints of one environment.
func (p Profiles) For(env Environment) Endpoints {
	if env == Development {
		return p.Development
	}
	return p.Production
}

// LoadProfiles reads a YAML overrides file on top of the defaults. Sections or
// fields missing from the file keep their default values.
func LoadProfiles(path string) (Profiles, error) {
	profiles := DefaultProfiles()
	data, err := os.ReadFile(path)
	if err != nil {
		return profiles, fmt.Errorf("reading environments file: %w", err)
	}

	var overrides struct {
		Development *Endpoints `yaml:"development"`
		Production  *Endpoints `yaml:"production"`
	}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return profiles, fmt.Errorf("parsing environments file %s: %w", path, err)
	}
	mergeEndpoints(&profiles.Development, overrides.Development)
	mergeEndpoints(&profiles.Production, overrides.Production)
	return profiles, nil
}

func mergeEndpoints(dst *Endpoints, src *Endpoints) {
	if src == nil {
		return
	}
	if src.APIURL != "" {
		dst.APIURL = strings.TrimRight(src.APIURL, "/")
	}
	if src.BaseURL != "" {
		dst.BaseURL = strings.TrimRight(src.BaseURL, "/")
	}
}

// Resolver picks the endpoints for the hostname a request was addressed to.
// The mapping can be swapped at runtime, e.g. when the overrides file changes.
type Resolver struct {
	mu       sync.RWMutex
	profiles Profiles
	forced   Environment
	logger   *slog.Logger
}

// NewResolver creates a Resolver. A non-empty forced environment applies to every host.
func NewResolver(profiles Profiles, forced Environment, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{profiles: profiles, forced: forced, logger: logger}
}

// Resolve returns the environment and endpoints for a hostname. localhost and
// 127.0.0.1 map to development, every other host to production.
func (r *Resolver) Resolve(host string) (Environment, Endpoints) {
	return r.resolve(host, true)
}

// ResolveRequest resolves the Host header of an inbound request. The header is
// client controlled, so a development hostname only counts when the peer is
// on the same machine; anyone else gets production.
func (r *Resolver) ResolveRequest(host string, localPeer bool) (Environment, Endpoints) {
	return r.resolve(host, localPeer)
}

func (r *Resolver) resolve(host string, allowDevelopment bool) (Environment, Endpoints) {
	r.mu.RLock()
	profiles, forced := r.profiles, r.forced
	r.mu.RUnlock()

	env := forced
	if env == "" {
		env = EnvironmentForHost(host)
		if env == Development && !allowDevelopment {
			r.logger.Warn("Ignoring development hostname from a remote client", "host", host)
			env = Production
		}
	}
	endpoints := profiles.For(env)

	r.logger.Debug("Resolved API environment",
		"host", host,
		"environment", env,
		"api_url", endpoints.APIURL,
		"base_url", endpoints.BaseURL)
	return env, endpoints
}

// Profiles returns the mapping currently in use.
func (r *Resolver) Profiles() Profiles {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles
}

// SetProfiles replaces the mapping.
func (r *Resolver) SetProfiles(p Profiles) {
	r.mu.Lock()
	r.profiles = p
	r.mu.Unlock()
}

// EnvironmentForHost classifies a hostname, with or without a port.
func EnvironmentForHost(host string) Environment {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}
	switch strings.ToLower(strings.Trim(hostname, "[]")) {
	case "localhost", "127.0.0.1":
		return Development
	default:
		return Production
	}
}
