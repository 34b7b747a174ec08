package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/emoread23/miniapp23/internal/domain"
)

// ErrMissingIdentity: no telegram id and no bot token means there is no way
// to resolve who the session belongs to. Fatal at startup.
var ErrMissingIdentity = errors.New("не удалось получить ID пользователя")

type Config struct {
	APIBaseURL     string
	TelegramID     domain.TelegramID // from MINIAPP_TELEGRAM_ID (the query-string id)
	BotToken       string
	BotName        string
	RequestTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		APIBaseURL:     "http://localhost:5000",
		BotName:        "miniapp_invest_bot",
		RequestTimeout: 10 * time.Second,
	}

	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("MINIAPP_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("MINIAPP_TELEGRAM_ID must be a number, got %q", v)
		}
		cfg.TelegramID = domain.TelegramID(id)
	}
	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if v := os.Getenv("BOT_NAME"); v != "" {
		cfg.BotName = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.RequestTimeout = time.Duration(sec) * time.Second
		}
	}
	return cfg
}

// RequireIdentity enforces that some identity source exists before the
// first data load is attempted.
func (c *Config) RequireIdentity() error {
	if c.TelegramID == 0 && c.BotToken == "" {
		return ErrMissingIdentity
	}
	return nil
}
