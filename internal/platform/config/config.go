// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenCodec) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Request-handling code never reads the environment directly: the signing secret
and token TTL travel from here into the token codec exactly once, at startup.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// minJWTSecretLength is the minimum byte length accepted for the signing secret.
// Anything shorter makes HS256 brute-forceable offline.
const minJWTSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the Finstack API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// DBConnectRetries bounds the number of pool construction attempts at startup.
	DBConnectRetries int `env:"DB_CONNECT_RETRIES" envDefault:"5"`

	// DBConnectRetryDelay is the pause between failed pool construction attempts.
	DBConnectRetryDelay time.Duration `env:"DB_CONNECT_RETRY_DELAY" envDefault:"5s"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// JWTSecret is the shared HS256 signing secret. Rotating it invalidates
	// every previously issued token (no key versioning).
	JWTSecret string `env:"JWT_SECRET,required"`

	// JWTTTL is the validity window of issued access tokens.
	JWTTTL time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// It fails fast when a required variable is missing or when the signing secret
// is too weak, so misconfiguration is caught before the server binds a port.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if len(cfg.JWTSecret) < minJWTSecretLength {
		return nil, fmt.Errorf("config: JWT_SECRET must be at least %d characters long", minJWTSecretLength)
	}

	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("config: JWT_TTL must be a positive duration")
	}

	if cfg.DBConnectRetries < 1 {
		return nil, fmt.Errorf("config: DB_CONNECT_RETRIES must be at least 1")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
