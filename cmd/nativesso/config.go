// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/nativesso/oidc"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envConfig is the cli's configuration, read from the environment (and an
// optional .env file).
type envConfig struct {
	ClientID       string   `env:"NATIVESSO_CLIENT_ID,required"`
	Issuer         string   `env:"NATIVESSO_ISSUER"`
	Scopes         []string `env:"NATIVESSO_SCOPES" envSeparator:" " envDefault:"openid profile offline_access device_sso"`
	Audience       string   `env:"NATIVESSO_AUDIENCE"`
	LogoutRedirect string   `env:"NATIVESSO_LOGOUT_REDIRECT"`
	ProviderCA     string   `env:"NATIVESSO_PROVIDER_CA"`
	ProviderFile   string   `env:"NATIVESSO_PROVIDER_FILE"`
	StateDB        string   `env:"NATIVESSO_STATE_DB" envDefault:"nativesso.db"`
	LogLevel       string   `env:"NATIVESSO_LOG_LEVEL" envDefault:"info"`
}

// loadEnvConfig loads .env (if present) and parses the environment.
func loadEnvConfig() (*envConfig, error) {
	const op = "loadEnvConfig"
	_ = godotenv.Load()

	cfg := &envConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Issuer == "" && cfg.ProviderFile == "" {
		return nil, fmt.Errorf("%s: one of NATIVESSO_ISSUER or NATIVESSO_PROVIDER_FILE is required", op)
	}
	return cfg, nil
}

func (e *envConfig) logger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "nativesso",
		Level:  hclog.LevelFromString(e.LogLevel),
		Output: os.Stderr,
	})
}

// oidcConfig returns the oidc.Config described by the environment.
func (e *envConfig) oidcConfig(logger hclog.Logger) (*oidc.Config, error) {
	return oidc.NewConfig(e.ClientID,
		oidc.WithScopes(e.Scopes...),
		oidc.WithAudience(e.Audience),
		oidc.WithEndSessionRedirectURI(e.LogoutRedirect),
		oidc.WithIssuer(e.Issuer),
		oidc.WithProviderCA(e.ProviderCA),
		oidc.WithLogger(logger),
	)
}

// providerConfig reads the static provider file when one is configured and
// otherwise discovers the provider from its issuer.
func (e *envConfig) providerConfig(ctx context.Context, c *oidc.Config) (*oidc.ProviderConfig, error) {
	if e.ProviderFile != "" {
		return loadProviderFile(e.ProviderFile)
	}
	return oidc.DiscoverProviderConfig(ctx, c)
}

// loadProviderFile reads static provider metadata from a yaml file.
func loadProviderFile(path string) (*oidc.ProviderConfig, error) {
	const op = "loadProviderFile"
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var pc oidc.ProviderConfig
	if err := yaml.Unmarshal(b, &pc); err != nil {
		return nil, fmt.Errorf("%s: unable to parse %s: %w", op, path, err)
	}
	return &pc, nil
}
