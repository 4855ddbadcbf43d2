// Package config builds immutable per-service configuration structs from the
// environment so main stays lean. Secrets and TTLs are passed explicitly into
// constructors downstream; nothing reads the environment after startup.
package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
)

// Auth configures the authentication service.
type Auth struct {
	Addr            string        `env:"AUTH_ADDR" envDefault:":8080"`
	MetricsAddr     string        `env:"AUTH_METRICS_ADDR" envDefault:":9090"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	JWTTokenSecret  string        `env:"JWT_TOKEN_SECRET,notEmpty"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_MINUTES_TTL" envDefault:"15"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_MINUTES_TTL" envDefault:"720"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Optional bootstrap superuser, created at startup when both are set.
	SuperuserUsername string `env:"SUPERUSER_USERNAME"`
	SuperuserPassword string `env:"SUPERUSER_PASSWORD"`
}

// Inventory configures the IP inventory service.
type Inventory struct {
	Addr           string        `env:"IP_ADDR" envDefault:":8080"`
	MetricsAddr    string        `env:"IP_METRICS_ADDR" envDefault:":9090"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Gateway configures the public façade.
type Gateway struct {
	Addr            string        `env:"GATEWAY_ADDR" envDefault:":8080"`
	MetricsAddr     string        `env:"GATEWAY_METRICS_ADDR" envDefault:":9090"`
	AuthServiceURL  string        `env:"AUTH_SERVICE_URL" envDefault:"http://auth:8080"`
	IPServiceURL    string        `env:"IP_SERVICE_URL" envDefault:"http://ip:8080"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// AuthFromEnv parses auth service configuration. TTL variables are plain
// minute counts, mirroring the deployment environment files.
func AuthFromEnv() (Auth, error) {
	var cfg Auth
	if err := env.ParseWithOptions(&cfg, minuteTTLOptions()); err != nil {
		return Auth{}, fmt.Errorf("parse auth config: %w", err)
	}
	return cfg, nil
}

// InventoryFromEnv parses IP inventory service configuration.
func InventoryFromEnv() (Inventory, error) {
	var cfg Inventory
	if err := env.Parse(&cfg); err != nil {
		return Inventory{}, fmt.Errorf("parse inventory config: %w", err)
	}
	return cfg, nil
}

// GatewayFromEnv parses gateway configuration.
func GatewayFromEnv() (Gateway, error) {
	var cfg Gateway
	if err := env.Parse(&cfg); err != nil {
		return Gateway{}, fmt.Errorf("parse gateway config: %w", err)
	}
	return cfg, nil
}

// minuteTTLOptions parses the *_MINUTES_TTL variables as integer minute
// counts rather than Go duration strings.
func minuteTTLOptions() env.Options {
	return env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (any, error) {
				if d, err := time.ParseDuration(v); err == nil {
					return d, nil
				}
				var minutes int
				if _, err := fmt.Sscanf(v, "%d", &minutes); err != nil {
					return nil, fmt.Errorf("invalid duration %q", v)
				}
				return time.Duration(minutes) * time.Minute, nil
			},
		},
	}
}
