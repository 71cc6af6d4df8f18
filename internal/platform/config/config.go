// Package config builds runtime configuration from environment variables so
// main stays lean. Unset storage values fall back to in-memory stores, which
// keeps local development dependency-free.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lifelink/internal/matching/scorer"
	"lifelink/pkg/domain"
)

// Config is the full runtime configuration.
type Config struct {
	HTTPAddr       string
	RequestTimeout time.Duration

	// PostgresDSN enables the postgres-backed stores when set.
	PostgresDSN string
	// RedisURL enables the redis-backed oracle request store when set.
	RedisURL string

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// AuditBuffer > 0 switches the audit publisher to asynchronous mode.
	AuditBuffer int

	Scoring scorer.Policy
}

// FromEnv reads configuration from LIFELINK_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:       envOr("LIFELINK_ADDR", ":8080"),
		PostgresDSN:    os.Getenv("LIFELINK_POSTGRES_DSN"),
		RedisURL:       os.Getenv("LIFELINK_REDIS_URL"),
		JWTSigningKey:  os.Getenv("LIFELINK_JWT_SIGNING_KEY"),
		JWTIssuer:      envOr("LIFELINK_JWT_ISSUER", "lifelink"),
		JWTAudience:    envOr("LIFELINK_JWT_AUDIENCE", "lifelink-api"),
		RequestTimeout: 30 * time.Second,
		Scoring:        scorer.DefaultPolicy(),
	}
	if cfg.JWTSigningKey == "" {
		// Development fallback; production deployments must set their own.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	if v := os.Getenv("LIFELINK_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse LIFELINK_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("LIFELINK_AUDIT_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse LIFELINK_AUDIT_BUFFER: %w", err)
		}
		cfg.AuditBuffer = n
	}
	if v := os.Getenv("LIFELINK_MIN_SCORE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse LIFELINK_MIN_SCORE: %w", err)
		}
		cfg.Scoring.MinimumScore = n
	}
	zones, err := parseRegionZones(os.Getenv("LIFELINK_REGION_ZONES"))
	if err != nil {
		return Config{}, err
	}
	if len(zones) > 0 {
		cfg.Scoring.RegionZones = zones
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return Config{}, fmt.Errorf("scoring policy: %w", err)
	}
	return cfg, nil
}

// parseRegionZones reads a "region=zone,region=zone" list.
func parseRegionZones(s string) (map[domain.Region]int, error) {
	if s == "" {
		return nil, nil
	}
	zones := make(map[domain.Region]int)
	for _, pair := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("parse LIFELINK_REGION_ZONES: malformed entry %q", pair)
		}
		zone, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("parse LIFELINK_REGION_ZONES: zone for %q: %w", key, err)
		}
		region, err := domain.ParseRegion(key)
		if err != nil {
			return nil, fmt.Errorf("parse LIFELINK_REGION_ZONES: %w", err)
		}
		zones[region] = zone
	}
	return zones, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
