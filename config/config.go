package config

import (
	"errors"
	"fmt"
	"os"
)

// Mode selects the front-end
type Mode string

const (
	ModeTelegram Mode = "telegram"
	ModeTerminal Mode = "terminal"
)

// Config holds all the configuration for the application
type Config struct {
	Mode         Mode
	BotToken     string
	GitHubToken  string
	GitHubAPIURL string
	DatabasePath string
	CatalogPath  string
	LogPath      string
	Debug        bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	mode := Mode(envOr("MODE", string(ModeTelegram)))
	if mode != ModeTelegram && mode != ModeTerminal {
		return nil, fmt.Errorf("MODE must be %q or %q, got %q", ModeTelegram, ModeTerminal, mode)
	}

	botToken := os.Getenv("BOT_TOKEN")
	if mode == ModeTelegram && botToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}

	return &Config{
		Mode:         mode,
		BotToken:     botToken,
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL: os.Getenv("GITHUB_API_URL"),
		DatabasePath: envOr("DB_PATH", "./data/repotrivia.db"),
		CatalogPath:  envOr("CATALOG_PATH", "assets/questions.yaml"),
		LogPath:      envOr("TUI_LOG_PATH", "./data/repotrivia.log"),
		Debug:        os.Getenv("DEBUG") == "true",
	}, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
