package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Directory DirectoryConfig `yaml:"directory"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	ListenAddr     string    `yaml:"listen_addr"`
	BaseURL        string    `yaml:"base_url"` // public URL used for url-mode asset references
	AllowedOrigins []string  `yaml:"allowed_origins"`
	TLS            TLSConfig `yaml:"tls"`
}

type TLSConfig struct {
	Enabled  bool       `yaml:"enabled"`
	CertFile string     `yaml:"cert_file"`
	KeyFile  string     `yaml:"key_file"`
	ACME     ACMEConfig `yaml:"acme"`
}

// ACMEConfig contains Let's Encrypt settings
type ACMEConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Email    string   `yaml:"email"`
	Domains  []string `yaml:"domains"`
	CacheDir string   `yaml:"cache_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	DevMode      bool   `yaml:"dev_mode"` // disables all checks, local development only
	SharedSecret string `yaml:"shared_secret"`
	IssuerURL    string `yaml:"issuer_url"`
	Audience     string `yaml:"audience"`
}

// DirectoryConfig selects and configures the user directory backend.
type DirectoryConfig struct {
	Mode            string   `yaml:"mode"` // "graph" or "mock"
	TenantID        string   `yaml:"tenant_id"`
	ClientID        string   `yaml:"client_id"`
	ClientSecret    string   `yaml:"client_secret"`
	CompanyName     string   `yaml:"company_name"`
	InternalDomains []string `yaml:"internal_domains"`
}

type RateLimitConfig struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

// SMTPConfig contains submission settings for template test sends.
type SMTPConfig struct {
	Enabled  bool       `yaml:"enabled"`
	Addr     string     `yaml:"addr"` // host:port of the submission endpoint
	Username string     `yaml:"username"`
	Password string     `yaml:"password"`
	From     string     `yaml:"from"`
	DKIM     DKIMConfig `yaml:"dkim"`
}

type DKIMConfig struct {
	KeyFile  string `yaml:"key_file"`
	Domain   string `yaml:"domain"`
	Selector string `yaml:"selector"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8090"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/signatures.db"
	}
	if cfg.Directory.Mode == "" {
		cfg.Directory.Mode = "mock"
	}
	if cfg.Directory.CompanyName == "" {
		cfg.Directory.CompanyName = "Guschlbauer Backwaren GmbH"
	}
	if len(cfg.Directory.InternalDomains) == 0 {
		cfg.Directory.InternalDomains = []string{"guschlbauer.at", "guschlbauer.cc"}
	}
	if cfg.Auth.IssuerURL == "" && cfg.Directory.TenantID != "" {
		cfg.Auth.IssuerURL = "https://login.microsoftonline.com/" + cfg.Directory.TenantID + "/v2.0"
	}
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = cfg.Directory.ClientID
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 60
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	switch cfg.Directory.Mode {
	case "mock":
	case "graph":
		if cfg.Directory.TenantID == "" || cfg.Directory.ClientID == "" || cfg.Directory.ClientSecret == "" {
			return fmt.Errorf("directory.tenant_id, client_id and client_secret are required in graph mode")
		}
	default:
		return fmt.Errorf("directory.mode must be \"graph\" or \"mock\", got %q", cfg.Directory.Mode)
	}

	if !cfg.Auth.DevMode && cfg.Auth.SharedSecret == "" && cfg.Auth.IssuerURL == "" {
		return fmt.Errorf("auth requires shared_secret or issuer_url unless dev_mode is enabled")
	}

	if cfg.SMTP.Enabled {
		if cfg.SMTP.Addr == "" {
			return fmt.Errorf("smtp.addr is required when smtp is enabled")
		}
		if cfg.SMTP.From == "" {
			return fmt.Errorf("smtp.from is required when smtp is enabled")
		}
	}

	if cfg.Server.TLS.Enabled && !cfg.Server.TLS.ACME.Enabled {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			return fmt.Errorf("tls.cert_file and tls.key_file are required when TLS is enabled without ACME")
		}
	}

	return nil
}
