package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the engine.
type Config struct {
	DatabaseURL    string
	HTTPAddr       string
	TelegramToken  string
	TelegramChatID int64
	PollInterval   time.Duration
}

// Load reads configuration from environment variables with sane
// defaults. The Telegram settings are optional: without them the
// engine runs with notifications unpermitted.
func Load() Config {
	cfg := Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:       strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		TelegramChatID: parseChatID(strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))),
		PollInterval:   parseSeconds(strings.TrimSpace(os.Getenv("POLL_INTERVAL_SECONDS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "study_master.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 30 * time.Second
	}

	return cfg
}

func parseChatID(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
