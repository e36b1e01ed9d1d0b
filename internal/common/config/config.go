package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Store     StoreConfig     `mapstructure:"store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StoreConfig identifies the remote commerce API. The access token is a
// public storefront token, not a server secret.
type StoreConfig struct {
	Domain         string `mapstructure:"domain"`
	AccessToken    string `mapstructure:"access_token"`
	APIVersion     string `mapstructure:"api_version"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// Endpoint returns the GraphQL endpoint URL for the configured store.
func (s StoreConfig) Endpoint() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", s.Domain, s.APIVersion)
}

// IsConfigured reports whether both the store domain and token are present.
// When false the gateway runs against a mocked client and serves fallback
// data instead of crashing at startup.
func (s StoreConfig) IsConfigured() bool {
	return s.Domain != "" && s.AccessToken != ""
}

// CacheConfig holds the response cache TTLs, in milliseconds.
type CacheConfig struct {
	ProductTTL int `mapstructure:"product_ttl"`
	SearchTTL  int `mapstructure:"search_ttl"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AssistantConfig holds settings for the generative text collaborator.
type AssistantConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	RequestTimeout int `mapstructure:"request_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
