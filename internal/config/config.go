package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/aeroops/divert/internal/diversion"
	"github.com/aeroops/divert/pkg/util"
)

// Config is the service configuration, loaded from a YAML file. Secrets and
// deployment specifics (database URL, port) may be overridden by environment
// variables so the file can be committed.
type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Feeds struct {
		AirportDirectoryURL string  `yaml:"airport_directory_url"`
		WeatherURL          string  `yaml:"weather_url"`
		AlertURL            string  `yaml:"alert_url"`
		TimeoutSec          int     `yaml:"timeout_sec"`
		RefreshSec          int     `yaml:"refresh_sec"`
		CacheTTLSec         int     `yaml:"cache_ttl_sec"`
		CacheSize           int     `yaml:"cache_size"`
		SearchRadiusNm      float64 `yaml:"search_radius_nm"`
	} `yaml:"feeds"`

	Engine diversion.Config `yaml:"engine"`

	// DatabaseURL enables the decision audit store when set. Env only.
	DatabaseURL string `yaml:"-"`
}

func Load(path string) (*Config, error) {
	cfg, err := util.LoadConfig[Config](path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if p := os.Getenv("PORT"); p != "" {
		cfg.Server.Port = p
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8087"
	}
	if o := os.Getenv("ALLOWED_ORIGINS"); o != "" {
		cfg.Server.AllowedOrigins = strings.Split(o, ",")
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if cfg.Feeds.TimeoutSec <= 0 {
		cfg.Feeds.TimeoutSec = 30
	}
	if cfg.Feeds.RefreshSec <= 0 {
		cfg.Feeds.RefreshSec = 300
	}
	if cfg.Feeds.CacheTTLSec <= 0 {
		cfg.Feeds.CacheTTLSec = 120
	}
	if cfg.Feeds.CacheSize <= 0 {
		cfg.Feeds.CacheSize = 256
	}
	if cfg.Feeds.SearchRadiusNm <= 0 {
		cfg.Feeds.SearchRadiusNm = 500
	}

	if cfg.Feeds.AirportDirectoryURL == "" {
		return nil, fmt.Errorf("feeds.airport_directory_url is required")
	}
	if cfg.Feeds.AlertURL == "" {
		return nil, fmt.Errorf("feeds.alert_url is required")
	}

	return cfg, nil
}
