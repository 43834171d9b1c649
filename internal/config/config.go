package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	OAuth  OAuthConfig  `mapstructure:"oauth"`
	Prompt PromptConfig `mapstructure:"prompt"`
	Mock   MockConfig   `mapstructure:"mock"`
	Log    LogConfig    `mapstructure:"log"`
}

// LLMConfig holds the chat-completion endpoint configuration
type LLMConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIVersion string `mapstructure:"api_version"`
	Model      string `mapstructure:"model"`
	MaxTokens  int    `mapstructure:"max_tokens"`
}

// OAuthConfig holds the token endpoint and client credentials
type OAuthConfig struct {
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scope        string `mapstructure:"scope"`
	CachePath    string `mapstructure:"cache_path"`
}

// PromptConfig points at the external default-prompt resource
type PromptConfig struct {
	Path string `mapstructure:"path"`
}

// MockConfig holds the local mock chat API configuration
type MockConfig struct {
	Port    string `mapstructure:"port"`
	DelayMS int    `mapstructure:"delay_ms"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.base_url", "https://prod.api.nvidia.com/llm/v1/azure/openai")
	v.SetDefault("llm.api_version", "2023-12-01-preview")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("oauth.token_url", "https://auth.ssa.nvidia.com/token")
	v.SetDefault("oauth.client_id", "nvssa-prd-client")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.scope", "azureopenai-readwrite")
	v.SetDefault("oauth.cache_path", "llm_oauth_token.json")
	v.SetDefault("prompt.path", "config/prompts.js")
	v.SetDefault("mock.port", "3001")
	v.SetDefault("mock.delay_ms", 1000)
	v.SetDefault("log.level", "info")
}

// Default returns the built-in configuration, ignoring any config file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// Load loads the configuration from config.yaml, or from the file named by
// the CONFIG_PATH environment variable. A missing file is not an error:
// every field has a default so the client runs unconfigured.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
