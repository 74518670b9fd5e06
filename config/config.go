package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
	LLM       LLMConfig       `mapstructure:"llm"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DocumentsConfig controls the document directory and cache behaviour
type DocumentsConfig struct {
	Dir           string        `mapstructure:"dir"`
	ContentTTL    time.Duration `mapstructure:"content_ttl"`
	StructuredTTL time.Duration `mapstructure:"structured_ttl"`
	WarmOnStart   bool          `mapstructure:"warm_on_start"`
}

func (d DocumentsConfig) Validate() error {
	if strings.TrimSpace(d.Dir) == "" {
		return fmt.Errorf("documents.dir required")
	}
	if d.ContentTTL <= 0 {
		return fmt.Errorf("documents.content_ttl must be > 0")
	}
	if d.StructuredTTL <= 0 {
		return fmt.Errorf("documents.structured_ttl must be > 0")
	}
	return nil
}

// SessionsConfig controls conversation history storage
type SessionsConfig struct {
	Backend     string        `mapstructure:"backend"` // inmemory, redis
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Redis       RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("sessions.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("sessions.redis.port required")
	}
	return nil
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// LLMConfig contains the answer-generation provider configuration
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // gemini
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (c Config) Validate() error {
	if err := c.Documents.Validate(); err != nil {
		return err
	}
	if c.Sessions.Backend == "redis" {
		if err := c.Sessions.Redis.Validate(); err != nil {
			return err
		}
	}
	if c.Sessions.IdleTimeout <= 0 {
		return fmt.Errorf("sessions.idle_timeout must be > 0")
	}
	return nil
}

// LoadConfig loads config from file with env overrides
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":10010")
	viper.SetDefault("documents.dir", "uploaded_docs")
	viper.SetDefault("documents.content_ttl", 5*time.Minute)
	viper.SetDefault("documents.structured_ttl", 10*time.Minute)
	viper.SetDefault("documents.warm_on_start", true)
	viper.SetDefault("sessions.backend", "inmemory")
	viper.SetDefault("sessions.idle_timeout", 30*time.Minute)
	viper.SetDefault("sessions.redis.port", "6379")
	viper.SetDefault("llm.provider", "gemini")
	viper.SetDefault("llm.model", "gemini-1.5-flash-latest")
	viper.SetDefault("llm.max_tokens", 2048)
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.timeout", 30*time.Second)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("ASKDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults plus env are a complete configuration; only a broken file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
