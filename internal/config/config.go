// This file defines the configuration structure for the application.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultUserAgent is sent to the Reddit API when REDDIT_USER_AGENT is unset.
const DefaultUserAgent = "RedditKeywordSearchBot/1.0"

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port   int `mapstructure:"port"`
	Search struct {
		Subreddit      string `mapstructure:"subreddit"`
		Sort           string `mapstructure:"sort"`
		Limit          int    `mapstructure:"limit"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"search"`
	Upload struct {
		MaxSizeMB   int `mapstructure:"max_size_mb"`  // 0 disables the size check
		MaxKeywords int `mapstructure:"max_keywords"` // 0 disables the keyword count check
	} `mapstructure:"upload"`
	Results struct {
		RetentionMinutes int `mapstructure:"retention_minutes"` // 0 keeps results until reset
	} `mapstructure:"results"`
	Reddit struct {
		BaseURL      string `mapstructure:"base_url"`
		TokenURL     string `mapstructure:"token_url"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		UserAgent    string `mapstructure:"user_agent"`
		Mock         bool   `mapstructure:"mock"`
	} `mapstructure:"reddit"`
	SecretKey string `mapstructure:"secret_key"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
// A .env file, if present, is loaded into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// RKS_SEARCH_LIMIT overrides `search.limit`, and so on.
	v.SetEnvPrefix("RKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The Reddit credentials keep their conventional, unprefixed names.
	_ = v.BindEnv("reddit.client_id", "REDDIT_CLIENT_ID")
	_ = v.BindEnv("reddit.client_secret", "REDDIT_SECRET")
	_ = v.BindEnv("reddit.user_agent", "REDDIT_USER_AGENT")
	_ = v.BindEnv("secret_key", "SECRET_KEY")

	// Set default values
	v.SetDefault("port", 8080)
	v.SetDefault("search.subreddit", "all")
	v.SetDefault("search.sort", "top")
	v.SetDefault("search.limit", 5)
	v.SetDefault("search.timeout_seconds", 20)
	v.SetDefault("upload.max_size_mb", 5)
	v.SetDefault("upload.max_keywords", 20)
	v.SetDefault("results.retention_minutes", 0)
	v.SetDefault("reddit.base_url", "https://oauth.reddit.com")
	v.SetDefault("reddit.token_url", "https://www.reddit.com/api/v1/access_token")
	v.SetDefault("reddit.user_agent", DefaultUserAgent)
	v.SetDefault("reddit.mock", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// HasRedditCredentials reports whether both the client id and secret are set.
func (c *Config) HasRedditCredentials() bool {
	return c.Reddit.ClientID != "" && c.Reddit.ClientSecret != ""
}
