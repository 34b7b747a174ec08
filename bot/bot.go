// Package bot is the Telegram surface of the client: the same screens the
// dashboard renders, delivered as chat messages.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/emoread23/miniapp23/internal/app"
	"github.com/emoread23/miniapp23/internal/countdown"
	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/state"
	"github.com/emoread23/miniapp23/internal/view"
)

const helpText = `📊 Доступные команды:
/start — приветствие и ссылка на приложение
/balance — баланс и прогресс уровня
/referrals — ваши рефералы
/top — топ игроков
/income — время до следующей выплаты
/help — помощь`

func Start(api *tgbotapi.BotAPI, gw app.Gateway, botName string, log *zap.Logger) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if !update.Message.IsCommand() {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "ℹ️ Используйте /help для списка команд")
			api.Send(msg)
			continue
		}
		handleCommand(api, gw, botName, log, update.Message)
	}
}

func handleCommand(api *tgbotapi.BotAPI, gw app.Gateway, botName string, log *zap.Logger, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	id := domain.TelegramID(msg.From.ID)
	response := tgbotapi.NewMessage(msg.Chat.ID, "")

	switch msg.Command() {
	case "start":
		response.Text = startText(ctx, gw, id, botName)
	case "help":
		response.Text = helpText
	case "balance":
		response.Text = balanceText(ctx, gw, id, botName)
	case "referrals":
		refs, err := gw.FetchReferrals(ctx, id)
		if err != nil {
			response.Text = "❌ " + err.Error()
			break
		}
		var b bytes.Buffer
		view.Referrals(&b, refs)
		response.Text = "👥 Ваши рефералы:\n" + b.String()
	case "top":
		top, err := gw.FetchTop(ctx)
		if err != nil {
			response.Text = "❌ " + err.Error()
			break
		}
		var b bytes.Buffer
		view.Top(&b, top)
		response.Text = "🏆 Топ игроков:\n" + b.String()
	case "income":
		response.Text = incomeText(ctx, gw, id)
	default:
		response.Text = "Неизвестная команда. Напишите /help"
	}

	if _, err := api.Send(response); err != nil {
		log.Warn("send failed", zap.Int64("chat", msg.Chat.ID), zap.Error(err))
	}
}

func startText(ctx context.Context, gw app.Gateway, id domain.TelegramID, botName string) string {
	profile, err := gw.FetchUser(ctx, id)
	if err != nil {
		return "👋 Добро пожаловать! Откройте приложение через Telegram, чтобы создать аккаунт."
	}
	return fmt.Sprintf(
		"👋 Добро пожаловать, %s!\nВаша реферальная ссылка:\n%s\n\n%s",
		profile.Username,
		view.ReferralLink(botName, profile.ReferralCode),
		helpText,
	)
}

func balanceText(ctx context.Context, gw app.Gateway, id domain.TelegramID, botName string) string {
	profile, err := gw.FetchUser(ctx, id)
	if err != nil {
		return commandError(err)
	}
	snap := state.Snapshot{User: &profile}
	if lvls, err := gw.FetchLevels(ctx); err == nil {
		if cur, ok := lvls[profile.Level]; ok {
			snap.CurrentLevel = &cur
		}
	}
	var b bytes.Buffer
	view.Dashboard(&b, snap, time.Now(), botName)
	return b.String()
}

func incomeText(ctx context.Context, gw app.Gateway, id domain.TelegramID) string {
	profile, err := gw.FetchUser(ctx, id)
	if err != nil {
		return commandError(err)
	}
	if profile.NextPayoutAt == nil {
		return "Время следующей выплаты неизвестно"
	}
	return "⏳ До выплаты: " + countdown.Format(time.Until(*profile.NextPayoutAt))
}

func commandError(err error) string {
	return "❌ " + err.Error()
}
