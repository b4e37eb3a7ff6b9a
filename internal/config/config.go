// Package config provides hierarchical configuration loading for factpanel.
// Precedence: defaults < YAML file < environment variables < CLI flags.
//
// Device-facing keys keep their bare legacy names (HOST, PORT, TRMNL_API_KEY,
// TRMNL_PLUGIN_UUID, CACHE_TIMEOUT, REFRESH_INTERVAL, DISPLAY_WIDTH,
// DISPLAY_HEIGHT) so existing deployments keep working; everything else is
// prefixed FACTPANEL_.
package config

import (
	"net"
	"time"
)

// Config holds all runtime configuration for the factpanel service.
// It is immutable after Load returns.
type Config struct {
	Server  Server  `yaml:"server"`
	FactAPI FactAPI `yaml:"fact_api"`
	TRMNL   TRMNL   `yaml:"trmnl"`
	Display Display `yaml:"display"`
	Cache   Cache   `yaml:"cache"`
	Logging Logging `yaml:"logging"`
	Breaker Breaker `yaml:"breaker"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host       string `yaml:"host" env:"HOST"`
	Port       string `yaml:"port" env:"PORT"`
	CORSOrigin string `yaml:"cors_origin" env:"FACTPANEL_CORS_ORIGIN"`
	// AccessToken, when set, is required in the Access-Token header on the
	// device-facing routes. Empty leaves them open.
	AccessToken string `yaml:"access_token" env:"FACTPANEL_ACCESS_TOKEN"`
}

// Addr returns the host:port the server listens on.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// FactAPI holds upstream fact API configuration.
type FactAPI struct {
	URL     string        `yaml:"url" env:"FACT_API_URL"`
	Timeout time.Duration `yaml:"timeout" env:"FACT_API_TIMEOUT"`
}

// TRMNL holds TRMNL webhook publishing configuration.
type TRMNL struct {
	APIKey     string        `yaml:"api_key" env:"TRMNL_API_KEY"`
	PluginUUID string        `yaml:"plugin_uuid" env:"TRMNL_PLUGIN_UUID"`
	BaseURL    string        `yaml:"base_url" env:"TRMNL_BASE_URL"`
	Timeout    time.Duration `yaml:"timeout" env:"TRMNL_TIMEOUT"`
}

// Display holds canvas geometry and device polling configuration.
// RefreshInterval is in whole seconds, matching the REFRESH_INTERVAL
// environment variable and the refresh_rate payload field.
type Display struct {
	Width           int    `yaml:"width" env:"DISPLAY_WIDTH"`
	Height          int    `yaml:"height" env:"DISPLAY_HEIGHT"`
	RefreshInterval int    `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`
	PortraitURL     string `yaml:"portrait_url" env:"FACTPANEL_PORTRAIT_URL"`
}

// RefreshRate returns the device polling interval as a duration.
func (d Display) RefreshRate() time.Duration {
	return time.Duration(d.RefreshInterval) * time.Second
}

// Cache holds fact cache and render cache configuration.
// Timeout is in whole seconds, matching the CACHE_TIMEOUT environment
// variable.
type Cache struct {
	Timeout   int   `yaml:"timeout" env:"CACHE_TIMEOUT"`
	MaxSizeMB int64 `yaml:"max_size_mb" env:"FACTPANEL_CACHE_SIZE_MB"`
}

// TTL returns the cache timeout as a duration.
func (c Cache) TTL() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level" env:"FACTPANEL_LOG_LEVEL"`
	Service string `yaml:"service" env:"FACTPANEL_LOG_SERVICE"`
}

// Breaker holds circuit breaker configuration for outbound HTTP calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures" env:"FACTPANEL_BREAKER_MAX_FAILURES"`
	Timeout     time.Duration `yaml:"timeout" env:"FACTPANEL_BREAKER_TIMEOUT"`
}

// Defaults returns a Config with sensible default values. TRMNL credentials
// have no default; validation rejects a config without them.
func Defaults() Config {
	return Config{
		Server: Server{
			Host:       "0.0.0.0",
			Port:       "8080",
			CORSOrigin: "*",
		},
		FactAPI: FactAPI{
			URL:     "https://api.chucknorris.io/jokes/random",
			Timeout: 10 * time.Second,
		},
		TRMNL: TRMNL{
			BaseURL: "https://usetrmnl.com",
			Timeout: 10 * time.Second,
		},
		Display: Display{
			Width:           800,
			Height:          480,
			RefreshInterval: 3600,
			PortraitURL:     "https://i.seadn.io/gae/MD2INKicV62FvEbGiNKyMdoRkDguSxL9JkCkGjgyJT0IzFe4VpNb-5nqWCvzpObAQHOkpjp8mmGL00cGLEkQx4ZC-8JrmlRBDth5Sg?auto=format&dpr=1&w=1000",
		},
		Cache: Cache{
			Timeout:   3600,
			MaxSizeMB: 32,
		},
		Logging: Logging{
			Level:   "info",
			Service: "factpanel",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
	}
}
