package conf

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	News       NewsConfig       `mapstructure:"news"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Relevance  RelevanceConfig  `mapstructure:"relevance"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Jobs       []JobConfig      `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// NewsConfig upstream news API settings. Source picks the collaborator:
// "api" (newscatcher-style search API) or "rss".
type NewsConfig struct {
	Source  string   `mapstructure:"source"`
	BaseURL string   `mapstructure:"base_url"`
	APIKey  string   `mapstructure:"api_key"`
	Lang    string   `mapstructure:"lang"`
	Page    int      `mapstructure:"page"`
	Feeds   []string `mapstructure:"feeds"`
}

type SummarizerConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Candidates int    `mapstructure:"candidates"`
}

type RelevanceConfig struct {
	Limit            int `mapstructure:"limit"`
	MaxFetchAttempts int `mapstructure:"max_fetch_attempts"`
}

type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

type JobConfig struct {
	Name   string                 `mapstructure:"name"`
	Cron   string                 `mapstructure:"cron"`
	Enable bool                   `mapstructure:"enable"`
	Params map[string]interface{} `mapstructure:"params"`
}

// LoadConfig loads the app config
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv() // read environment variables automatically

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// expand ${VAR} references so secrets stay out of the YAML
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.ExpandEnv(val))
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	if c.Relevance.Limit <= 0 {
		c.Relevance.Limit = 5
	}
	if c.Relevance.MaxFetchAttempts <= 0 {
		c.Relevance.MaxFetchAttempts = 2
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 300
	}
	return &c, nil
}
