package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	LLM      LLMConfig      `mapstructure:"llm"`
	S3       S3Config       `mapstructure:"s3"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// Port overrides the port part of Address when set (PORT in the environment).
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ListenAddress returns the address the HTTP server binds to.
func (s ServerConfig) ListenAddress() string {
	if s.Port == "" {
		return s.Address
	}
	host := s.Address
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host + ":" + s.Port
}

type DatabaseConfig struct {
	URI            string        `mapstructure:"uri"`
	Name           string        `mapstructure:"name"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LLMConfig configures the chat-completion API used to generate workout plans.
type LLMConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	MaxTokens  int           `mapstructure:"max_tokens"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

// S3Config configures the bucket used for workout exports.
// Export is disabled when BucketName is empty.
type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// Enabled reports whether object storage has been configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// legacyEnv maps config keys to the environment names the previous
// deployment used, so existing .env files keep working.
var legacyEnv = map[string][]string{
	"server.port":  {"SERVER_PORT", "PORT"},
	"database.uri": {"DATABASE_URI", "MONGODB_URI"},
	"jwt.secret":   {"JWT_SECRET"},
	"llm.api_key":  {"LLM_API_KEY", "OPENAI_API_KEY"},
}

// LoadConfig reads configuration from <path>/config.yaml, a <path>/.env file
// and the process environment. Environment wins over the file.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":5412")
	v.SetDefault("server.port", "")
	v.SetDefault("server.read_timeout", "10s")
	// generation can take a while, the write timeout has to outlive llm.timeout
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "workout_app")
	v.SetDefault("database.connect_timeout", "10s")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "workout-buddy")
	v.SetDefault("jwt.expiration", "168h")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.max_tokens", 1500)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.retry_count", 1)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.presign_expiry", "15m")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required (JWT_SECRET)"))
	}
	if c.JWT.Expiration <= 0 {
		errs = append(errs, errors.New("jwt.expiration must be positive"))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}
	if c.LLM.RetryCount < 0 {
		errs = append(errs, errors.New("llm.retry_count cannot be negative"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
