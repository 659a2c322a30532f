package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devSecret = "dev-secret-change-in-production-min-32-chars"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Mdib     MdibConfig     `mapstructure:"mdib"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

type ServerConfig struct {
	GRPCPort        int           `mapstructure:"grpc_port"`
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type AuthConfig struct {
	JWTSecretEnv   string        `mapstructure:"jwt_secret_env"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	// Issuer is written into and required from every token.
	Issuer        string               `mapstructure:"issuer"`
	Users         []UserConfig         `mapstructure:"users"`
	MachineTokens []MachineTokenConfig `mapstructure:"machine_tokens"`
}

// UserConfig is an operator account. PasswordHash is an argon2id hash as
// printed by "mdibctl auth hash-password".
type UserConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	Role         string `mapstructure:"role"`
}

// MachineTokenConfig authorizes a static bearer token by its SHA-256 hash.
type MachineTokenConfig struct {
	Name      string `mapstructure:"name"`
	TokenHash string `mapstructure:"token_hash"`
	Role      string `mapstructure:"role"`
}

type MdibConfig struct {
	// ProfilePath is the device profile composed into the MDIB at startup.
	ProfilePath string `mapstructure:"profile_path"`
	// ProfileSearchPaths are scanned for profiles referenced by name.
	ProfileSearchPaths []string `mapstructure:"profile_search_paths"`
	// SequenceID overrides the random urn:uuid sequence id.
	SequenceID string `mapstructure:"sequence_id"`
	InstanceID uint64 `mapstructure:"instance_id"`
	// ReportBuffer is the per-subscriber queue length of report streams.
	ReportBuffer int `mapstructure:"report_buffer"`
	// SimulationInterval drives the metric simulator; zero disables it.
	SimulationInterval time.Duration `mapstructure:"simulation_interval"`
}

type ArchiveConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// QueueSize bounds the change sets waiting for the archive writer.
	QueueSize int `mapstructure:"queue_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "openmdib")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("auth.jwt_secret_env", "JWT_SECRET")
	v.SetDefault("auth.access_token_ttl", "60m")
	v.SetDefault("auth.issuer", "openmdib")

	v.SetDefault("mdib.profile_search_paths", []string{"profiles"})
	v.SetDefault("mdib.report_buffer", 64)
	v.SetDefault("mdib.simulation_interval", "0s")

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.queue_size", 256)
}

// Load reads a YAML file. An empty path yields the defaults; OMDIB_ prefixed
// environment variables override both ("OMDIB_SERVER_GRPC_PORT").
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("OMDIB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Mdib.ReportBuffer <= 0 {
		return nil, fmt.Errorf("mdib.report_buffer must be positive, got %d", config.Mdib.ReportBuffer)
	}
	return &config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// GetJWTSecret reads the signing secret from the configured environment
// variable and falls back to a development secret.
func (a *AuthConfig) GetJWTSecret() string {
	envVar := a.JWTSecretEnv
	if envVar == "" {
		envVar = "JWT_SECRET"
	}
	secret := os.Getenv(envVar)
	if secret == "" {
		return devSecret
	}
	return secret
}

func (a *AuthConfig) IsProductionReady() bool {
	secret := a.GetJWTSecret()
	return secret != devSecret && len(secret) >= 32
}
