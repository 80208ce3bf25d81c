package config

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Gophish   Gophish   `json:"gophish"`
	Artifacts Artifacts `json:"artifacts"`
}

type Gophish struct {
	URL                 string `json:"url"`
	APIKey              string `json:"api_key"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
	CacheTTLSeconds     int    `json:"cache_ttl_seconds"`
	CacheCleanupSeconds int    `json:"cache_cleanup_seconds"`
	MaxUpsertAttempts   uint64 `json:"max_upsert_attempts"`
}

type Artifacts struct {
	Dir                 string `json:"dir"`
	SummaryTemplatePath string `json:"summary_template_path"`
}

func NewConfig() *Config {
	return &Config{
		Gophish: Gophish{
			URL:                 "",
			APIKey:              "",
			TimeoutSeconds:      30,
			CacheTTLSeconds:     60,
			CacheCleanupSeconds: 120,
			MaxUpsertAttempts:   3,
		},
		Artifacts: Artifacts{
			Dir:                 ".",
			SummaryTemplatePath: "campaign_data.json",
		},
	}
}

func (c *Config) Load(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Ctx(ctx).Warn().Msgf("config file does not exist, file path: %s", path)
			return nil
		}
		return err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Ctx(ctx).Error().Msgf("config file close failed, file path: %s", path)
		}
	}(f)

	p := json.NewDecoder(f)
	if err := p.Decode(&c); err != nil {
		return err
	}

	return nil
}
