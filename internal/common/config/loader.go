// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_REDIS_ADDRESS
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env in the working directory, its parents, and the
// project root so tests under internal/... pick it up too.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in yaml values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)
		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "mindline-backend"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.MetricsAddress == "" {
		cfg.Server.MetricsAddress = ":9090"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Pipeline.MaxUtteranceChars == 0 {
		cfg.Pipeline.MaxUtteranceChars = 4000
	}
	if cfg.Pipeline.ContextWindow == 0 {
		cfg.Pipeline.ContextWindow = 10
	}
	if cfg.Pipeline.ContextTTLMinutes == 0 {
		cfg.Pipeline.ContextTTLMinutes = 24 * 60
	}
	if cfg.Pipeline.PromptTurns == 0 {
		cfg.Pipeline.PromptTurns = 3
	}
	if cfg.Pipeline.PromptBudgetChars == 0 {
		cfg.Pipeline.PromptBudgetChars = 8000
	}
	if cfg.Pipeline.TurnDeadline == 0 {
		cfg.Pipeline.TurnDeadline = 30000
	}
	if cfg.Pipeline.Risk.HighThreshold == 0 {
		cfg.Pipeline.Risk.HighThreshold = 0.3
	}
	if cfg.Pipeline.Risk.MediumThreshold == 0 {
		cfg.Pipeline.Risk.MediumThreshold = 0.2
	}
	if cfg.Pipeline.Risk.HistoryWindowDays == 0 {
		cfg.Pipeline.Risk.HistoryWindowDays = 7
	}

	if cfg.Telemetry.QueueSize == 0 {
		cfg.Telemetry.QueueSize = 256
	}
	if cfg.Telemetry.Elasticsearch.Index == "" {
		cfg.Telemetry.Elasticsearch.Index = "mindline-turn-events"
	}

	for i := range cfg.Providers.Chain {
		p := &cfg.Providers.Chain[i]
		if p.Timeout == 0 {
			p.Timeout = 10000
		}
		if p.MaxTokens == 0 {
			p.MaxTokens = 600
		}
		if p.Temperature == 0 {
			p.Temperature = 0.7
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Pipeline.Risk.MediumThreshold >= cfg.Pipeline.Risk.HighThreshold {
		return fmt.Errorf("risk medium_threshold must be below high_threshold")
	}
	if cfg.Pipeline.ContextWindow < 1 {
		return fmt.Errorf("pipeline context_window must be at least 1")
	}
	seen := make(map[string]bool)
	for _, p := range cfg.Providers.Chain {
		if p.ID == "" {
			return fmt.Errorf("provider with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate provider id: %s", p.ID)
		}
		seen[p.ID] = true
		if p.APIKey != "" && p.BaseURL == "" {
			return fmt.Errorf("provider %s: base_url is required", p.ID)
		}
	}
	return nil
}
