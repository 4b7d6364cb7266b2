// Package config loads service configuration. An optional YAML file (path
// in SAGA_CONFIG) is overlaid with SAGA_-prefixed environment variables;
// anything left unset falls back to the fixed local defaults, so every
// binary runs with no configuration at all on a developer machine.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the settings for all binaries; each main reads the parts it
// needs.
type Config struct {
	Service struct {
		Name string `koanf:"name"`
		Addr string `koanf:"addr"`
	} `koanf:"service"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Providers struct {
		UserURL      string `koanf:"user_url"`
		InventoryURL string `koanf:"inventory_url"`
		PaymentURL   string `koanf:"payment_url"`
	} `koanf:"providers"`

	Saga struct {
		CallTimeout time.Duration `koanf:"call_timeout"`
	} `koanf:"saga"`

	Redis struct {
		Addr string `koanf:"addr"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Payment struct {
		DeclineRate float64 `koanf:"decline_rate"`
	} `koanf:"payment"`

	Gateway struct {
		UserURL      string `koanf:"user_url"`
		OrderURL     string `koanf:"order_url"`
		InventoryURL string `koanf:"inventory_url"`
		PaymentURL   string `koanf:"payment_url"`
	} `koanf:"gateway"`
}

// defaultAddrs are the historical ports each service listens on.
var defaultAddrs = map[string]string{
	"user-service":      ":3001",
	"order-service":     ":3002",
	"inventory-service": ":3003",
	"payment-service":   ":3004",
	"api-gateway":       ":4000",
}

// Load builds the configuration for the named service.
func Load(service string) (Config, error) {
	k := koanf.New(".")

	// Optional file layer.
	if path := os.Getenv("SAGA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment overlay: SAGA_PROVIDERS__USER_URL -> providers.user_url.
	if err := k.Load(env.Provider("SAGA_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "SAGA_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults(service)
	return cfg, nil
}

func (c *Config) applyDefaults(service string) {
	c.Service.Name = service
	if c.Service.Addr == "" {
		c.Service.Addr = defaultAddrs[service]
	}

	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}

	if c.Providers.UserURL == "" {
		c.Providers.UserURL = "http://localhost:3001"
	}
	if c.Providers.InventoryURL == "" {
		c.Providers.InventoryURL = "http://localhost:3003"
	}
	if c.Providers.PaymentURL == "" {
		c.Providers.PaymentURL = "http://localhost:3004"
	}

	if c.Saga.CallTimeout == 0 {
		c.Saga.CallTimeout = 5 * time.Second
	}
	if c.Idempotency.TTL == 0 {
		c.Idempotency.TTL = 24 * time.Hour
	}
	if c.Payment.DeclineRate == 0 {
		c.Payment.DeclineRate = 0.1
	}

	if c.Gateway.UserURL == "" {
		c.Gateway.UserURL = "http://localhost:3001"
	}
	if c.Gateway.OrderURL == "" {
		c.Gateway.OrderURL = "http://localhost:3002"
	}
	if c.Gateway.InventoryURL == "" {
		c.Gateway.InventoryURL = "http://localhost:3003"
	}
	if c.Gateway.PaymentURL == "" {
		c.Gateway.PaymentURL = "http://localhost:3004"
	}
}
