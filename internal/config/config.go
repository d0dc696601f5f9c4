package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultWebhookEndpoint = "/whatsapp/receive"
	DefaultJWTExpiresIn    = "24h"
)

type Config struct {
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
	Twilio TwilioConfig `toml:"twilio"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// TwilioConfig carries the carrier credentials and webhook behavior.
// AccountSID, AuthToken, and TwilioNumber are required; a bridge must never
// come up half-configured, so Load fails before any route is registered.
type TwilioConfig struct {
	AccountSID       string `toml:"account_sid" validate:"required"`
	AuthToken        string `toml:"auth_token" validate:"required"`
	TwilioNumber     string `toml:"twilio_number" validate:"required"`
	Endpoint         string `toml:"endpoint"`
	ValidateRequests bool   `toml:"validate_requests"`
	ValidationURL    string `toml:"validation_url"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Twilio: TwilioConfig{
			Endpoint: DefaultWebhookEndpoint,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the required carrier credentials.
func (c Config) Validate() error {
	err := validator.New().Struct(c.Twilio)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}
	switch errs[0].Field() {
	case "AccountSID":
		return fmt.Errorf("specify an 'account_sid' in your twilio configuration")
	case "AuthToken":
		return fmt.Errorf("specify an 'auth_token' in your twilio configuration")
	case "TwilioNumber":
		return fmt.Errorf("specify a 'twilio_number' in your twilio configuration")
	}
	return err
}
