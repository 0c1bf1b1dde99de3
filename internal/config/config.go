// Package config loads the application configuration from defaults,
// a .env file, command-line flags and environment variables, in that
// order of increasing priority, and validates the result.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config carries every runtime setting of the application.
type Config struct {
	RunAddr          string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel         string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName       string        `env:"FILE_STORAGE_PATH" validate:"omitempty,filepath"`
	SessionSecretKey string        `env:"SESSION_SECRET_KEY" validate:"required,base64url"`
	SimulatedLatency time.Duration `env:"SIMULATED_LATENCY"`
	SessionTokenTTL  time.Duration `env:"SESSION_TOKEN_TTL"`
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption configures New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command-line flag parsing, which tests
// need because the test binary owns the flag set.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds and validates the configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{
		RunAddr:          ":8080",
		LogLevel:         "info",
		DBFileName:       "propiedadesplus.json",
		SessionSecretKey: "cHJvcGllZGFkZXNwbHVzLWRldi1rZXk=",
		SimulatedLatency: time.Second,
		SessionTokenTTL:  0,
	}
	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.DBFileName, "f", values.DBFileName, "JSON file name with the record store")
		flag.StringVar(&values.SessionSecretKey, "s", values.SessionSecretKey, "base64url key signing the persisted session")
		flag.DurationVar(&values.SimulatedLatency, "d", values.SimulatedLatency, "artificial delay of the simulated backend calls")
		flag.Parse()
	}

	var valuesFromEnv Config
	err = env.Parse(&valuesFromEnv)
	if err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		values.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.LogLevel != "" {
		values.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.DBFileName != "" {
		values.DBFileName = valuesFromEnv.DBFileName
	}

	if valuesFromEnv.SessionSecretKey != "" {
		values.SessionSecretKey = valuesFromEnv.SessionSecretKey
	}

	if valuesFromEnv.SimulatedLatency != 0 {
		values.SimulatedLatency = valuesFromEnv.SimulatedLatency
	}

	if valuesFromEnv.SessionTokenTTL != 0 {
		values.SessionTokenTTL = valuesFromEnv.SessionTokenTTL
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
