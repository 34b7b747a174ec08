package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/emoread23/miniapp23/bot"
	"github.com/emoread23/miniapp23/internal/app"
	"github.com/emoread23/miniapp23/internal/cli"
	"github.com/emoread23/miniapp23/internal/config"
	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/gateway"
	"github.com/emoread23/miniapp23/internal/state"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("failed to build logger:", err)
	}
	defer logger.Sync()

	if err := cfg.RequireIdentity(); err != nil {
		// No identity means no session: fatal, not a transient notification.
		log.Fatal(err)
	}

	gw := gateway.New(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	store := state.NewStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bot mode: a token turns the client into the chat surface.
	if cfg.BotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		logger.Info("bot authorized", zap.String("account", api.Self.UserName))
		bot.Start(api, gw, cfg.BotName, logger)
		return
	}

	// Dashboard mode: a single-user session addressed by telegram id.
	in := bufio.NewReader(os.Stdin)
	out := os.Stdout

	identity := domain.TelegramIdentity{ID: int64(cfg.TelegramID)}
	notify := cli.NewNotifier(out)
	a := app.New(gw, store, notify, logger, cfg.TelegramID, cfg.BotName)
	ui := cli.NewUI(a, store, notify, identity, cfg.BotName, in, out)

	if err := a.Refresh(ctx); err != nil {
		if !ui.RequireAuth(ctx) {
			log.Fatal("Не удалось получить данные пользователя:", err)
		}
	}

	ui.Run(ctx)
}
