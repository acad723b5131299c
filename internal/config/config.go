package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	HTTPAddr        string `yaml:"http_addr"`
	MaxBodyBytes    int    `yaml:"max_body_bytes"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_sec"`

	RedisURL           string `yaml:"redis_url"`
	VerdictCacheTTLSec int    `yaml:"verdict_cache_ttl_sec"`

	DatabaseURL  string `yaml:"database_url"`
	AuditEnabled bool   `yaml:"audit_enabled"`
	AuditLimit   int    `yaml:"audit_limit"`
	// AuditMemoryMax caps the in-process audit log used without DATABASE_URL.
	AuditMemoryMax int `yaml:"audit_memory_max"`

	RenderSquareSize int    `yaml:"render_square_size"`
	MessagesDir      string `yaml:"messages_dir"`

	RemoteBaseURL    string `yaml:"remote_base_url"`
	RemoteTimeoutSec int    `yaml:"remote_timeout_sec"`
	RemoteRetry      int    `yaml:"remote_retry"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *AppConfig {
	return &AppConfig{
		HTTPAddr:           ":8080",
		MaxBodyBytes:       64 << 10,
		ShutdownTimeout:    10,
		VerdictCacheTTLSec: 3600,
		AuditEnabled:       true,
		AuditLimit:         20,
		AuditMemoryMax:     1024,
		RenderSquareSize:   64,
		RemoteTimeoutSec:   5,
		RemoteRetry:        3,
	}
}

// Load applies defaults, then the YAML file named by OHMYCHESS_CONFIG (if
// any), then environment variables.
func Load() (*AppConfig, error) {
	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("OHMYCHESS_CONFIG")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile is Load with an explicit file and no environment overlay.
func LoadFile(path string) (*AppConfig, error) {
	cfg := Defaults()
	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		c.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("MAX_BODY_BYTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxBodyBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ShutdownTimeout = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("VERDICT_CACHE_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.VerdictCacheTTLSec = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("AUDIT_ENABLED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AuditEnabled = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("AUDIT_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.AuditLimit = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("AUDIT_MEMORY_MAX")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.AuditMemoryMax = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("RENDER_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RenderSquareSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MESSAGES_DIR")); v != "" {
		c.MessagesDir = v
	}

	if v := strings.TrimSpace(os.Getenv("REMOTE_BASE_URL")); v != "" {
		c.RemoteBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("REMOTE_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RemoteTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("REMOTE_RETRY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.RemoteRetry = n
		}
	}
}

func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	if c.RenderSquareSize < 16 || c.RenderSquareSize > 256 {
		return errors.New("RENDER_SQUARE_SIZE must be between 16 and 256")
	}
	if c.AuditEnabled && c.AuditLimit <= 0 {
		return errors.New("AUDIT_LIMIT must be positive")
	}
	if c.AuditEnabled && c.AuditMemoryMax <= 0 {
		return errors.New("AUDIT_MEMORY_MAX must be positive")
	}
	return nil
}

func (c *AppConfig) VerdictCacheTTL() time.Duration {
	return time.Duration(c.VerdictCacheTTLSec) * time.Second
}

func (c *AppConfig) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSec) * time.Second
}

func (c *AppConfig) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}
