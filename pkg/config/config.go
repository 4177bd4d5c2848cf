// Package config loads the service configuration with the precedence
// ENV > config file > defaults.
package config

import "time"

// EnvPrefix is the prefix of all environment variable overrides.
const EnvPrefix = "DIESELHUB"

// Config is the root configuration structure.
type Config struct {
	Service ServiceConfig
	Log     LogConfig
	Mongo   MongoConfig
	S3      S3Config `mapstructure:"s3"`
	Auth    AuthConfig
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MongoConfig configures the document store.
type MongoConfig struct {
	URI              string        `mapstructure:"uri"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// S3Config configures the image blob store. Optional; media upload commands
// fail fast when the bucket is unset.
type S3Config struct {
	Bucket           string        `mapstructure:"bucket"`
	Region           string        `mapstructure:"region"`
	Endpoint         string        `mapstructure:"endpoint"`
	AccessKeyID      string        `mapstructure:"access_key_id"`
	SecretAccessKey  string        `mapstructure:"secret_access_key"`
	UsePathStyle     bool          `mapstructure:"use_path_style"`
	PublicBaseURL    string        `mapstructure:"public_base_url"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// AuthConfig configures admin token verification.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "dieselhub",
			Environment: "development",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Mongo: MongoConfig{
			URI:              "mongodb://localhost:27017",
			Database:         "dieselhub",
			ConnectTimeout:   10 * time.Second,
			OperationTimeout: 10 * time.Second,
		},
		S3: S3Config{
			Region:           "eu-central-1",
			OperationTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Issuer: "dieselhub-admin",
		},
	}
}
