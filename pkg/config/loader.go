package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader loads and validates configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a loader. configFile may be empty; envPrefix
// defaults to EnvPrefix.
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	if envPrefix == "" {
		envPrefix = EnvPrefix
	}
	return &ViperLoader{configFile: configFile, envPrefix: envPrefix}
}

// Load loads configuration with precedence: ENV > file > defaults.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	l.setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (l *ViperLoader) setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("service.name", d.Service.Name)
	v.SetDefault("service.environment", d.Service.Environment)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("mongo.uri", d.Mongo.URI)
	v.SetDefault("mongo.database", d.Mongo.Database)
	v.SetDefault("mongo.connect_timeout", d.Mongo.ConnectTimeout)
	v.SetDefault("mongo.operation_timeout", d.Mongo.OperationTimeout)

	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.access_key_id", d.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", d.S3.SecretAccessKey)
	v.SetDefault("s3.use_path_style", d.S3.UsePathStyle)
	v.SetDefault("s3.public_base_url", d.S3.PublicBaseURL)
	v.SetDefault("s3.operation_timeout", d.S3.OperationTimeout)

	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("auth.issuer", d.Auth.Issuer)
}

// bindEnvVars binds environment variables explicitly for nested keys.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("service.name", l.prefixed("SERVICE_NAME"))
	v.BindEnv("service.environment", l.prefixed("SERVICE_ENVIRONMENT"), l.prefixed("ENVIRONMENT"))

	v.BindEnv("log.level", l.prefixed("LOG_LEVEL"))
	v.BindEnv("log.format", l.prefixed("LOG_FORMAT"))

	v.BindEnv("mongo.uri", l.prefixed("MONGO_URI"))
	v.BindEnv("mongo.database", l.prefixed("MONGO_DATABASE"))
	v.BindEnv("mongo.connect_timeout", l.prefixed("MONGO_CONNECT_TIMEOUT"))
	v.BindEnv("mongo.operation_timeout", l.prefixed("MONGO_OPERATION_TIMEOUT"))

	v.BindEnv("s3.bucket", l.prefixed("S3_BUCKET"))
	v.BindEnv("s3.region", l.prefixed("S3_REGION"))
	v.BindEnv("s3.endpoint", l.prefixed("S3_ENDPOINT"))
	v.BindEnv("s3.access_key_id", l.prefixed("S3_ACCESS_KEY_ID"))
	v.BindEnv("s3.secret_access_key", l.prefixed("S3_SECRET_ACCESS_KEY"))
	v.BindEnv("s3.use_path_style", l.prefixed("S3_USE_PATH_STYLE"))
	v.BindEnv("s3.public_base_url", l.prefixed("S3_PUBLIC_BASE_URL"))
	v.BindEnv("s3.operation_timeout", l.prefixed("S3_OPERATION_TIMEOUT"))

	v.BindEnv("auth.jwt_secret", l.prefixed("AUTH_JWT_SECRET"))
	v.BindEnv("auth.issuer", l.prefixed("AUTH_ISSUER"))
}

func (l *ViperLoader) prefixed(name string) string {
	return l.envPrefix + "_" + name
}

// Validate checks the loaded configuration for inconsistencies that would
// only surface later at runtime.
func (l *ViperLoader) Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Service.Name) == "" {
		errs = append(errs, errors.New("service.name cannot be empty"))
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of json, text, console", cfg.Log.Format))
	}

	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		errs = append(errs, errors.New("mongo.uri cannot be empty"))
	}
	if strings.TrimSpace(cfg.Mongo.Database) == "" {
		errs = append(errs, errors.New("mongo.database cannot be empty"))
	}
	if cfg.Mongo.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("mongo.connect_timeout must be positive"))
	}
	if cfg.Mongo.OperationTimeout <= 0 {
		errs = append(errs, errors.New("mongo.operation_timeout must be positive"))
	}

	// The bucket is optional, but a configured bucket needs a region.
	if cfg.S3.Bucket != "" && strings.TrimSpace(cfg.S3.Region) == "" {
		errs = append(errs, errors.New("s3.region cannot be empty when s3.bucket is set"))
	}

	if cfg.Auth.JWTSecret != "" && len(cfg.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 bytes"))
	}
	if cfg.Auth.JWTSecret != "" && strings.TrimSpace(cfg.Auth.Issuer) == "" {
		errs = append(errs, errors.New("auth.issuer cannot be empty when auth.jwt_secret is set"))
	}

	return errors.Join(errs...)
}
