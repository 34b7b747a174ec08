// Package app orchestrates user actions: validate locally, call the
// gateway, refresh state, notify. UI wiring stays outside; anything that
// can dispatch an action with a payload can drive this package.
package app

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/gateway"
	"github.com/emoread23/miniapp23/internal/levels"
	"github.com/emoread23/miniapp23/internal/state"
	"github.com/emoread23/miniapp23/internal/view"
)

// Gateway is the slice of the backend client the handlers need.
type Gateway interface {
	FetchUser(ctx context.Context, id domain.TelegramID) (domain.UserProfile, error)
	FetchCurrentUser(ctx context.Context) (domain.UserProfile, error)
	Invest(ctx context.Context, id domain.TelegramID, amount decimal.Decimal) error
	Withdraw(ctx context.Context, id domain.TelegramID, amount decimal.Decimal) error
	FetchLevels(ctx context.Context) (map[domain.LevelName]gateway.LevelInfo, error)
	FetchUpgrades(ctx context.Context) ([]domain.Upgrade, error)
	PurchaseUpgrade(ctx context.Context, id domain.UpgradeID) error
	FetchAchievements(ctx context.Context) ([]domain.Achievement, error)
	FetchReferrals(ctx context.Context, id domain.TelegramID) ([]domain.ReferralEntry, error)
	FetchTop(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Authenticate(ctx context.Context, identity domain.TelegramIdentity) (domain.UserProfile, error)
	Logout(ctx context.Context) error
}

// Notifier shows transient success/error messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Result reports what a handler did with the shared state.
type Result struct {
	RequiresRefresh bool
}

// ValidationError means bad local input; the gateway was never called.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

const minWithdraw = 1

type App struct {
	gw     Gateway
	store  *state.Store
	notify Notifier
	log    *zap.Logger

	id      domain.TelegramID // query-string identity; 0 when session-based
	botName string
}

func New(gw Gateway, store *state.Store, notify Notifier, log *zap.Logger, id domain.TelegramID, botName string) *App {
	return &App{gw: gw, store: store, notify: notify, log: log, id: id, botName: botName}
}

// Refresh reloads the whole snapshot. Responses are applied in
// request-start order; a stale response is dropped on the floor.
func (a *App) Refresh(ctx context.Context) error {
	seq := a.store.Begin()

	profile, err := a.fetchProfile(ctx)
	if err != nil {
		return err
	}
	lvls, err := a.gw.FetchLevels(ctx)
	if err != nil {
		return err
	}
	upgrades, err := a.gw.FetchUpgrades(ctx)
	if err != nil {
		return err
	}
	achievements, err := a.gw.FetchAchievements(ctx)
	if err != nil {
		return err
	}

	snap := state.Snapshot{
		User:         &profile,
		Upgrades:     upgrades,
		Achievements: achievements,
	}
	if cur, ok := lvls[profile.Level]; ok {
		snap.CurrentLevel = &cur
	}
	if !a.store.Apply(seq, snap) {
		a.log.Debug("stale refresh discarded", zap.Uint64("seq", seq))
	}
	return nil
}

func (a *App) fetchProfile(ctx context.Context) (domain.UserProfile, error) {
	if a.id != 0 {
		return a.gw.FetchUser(ctx, a.id)
	}
	return a.gw.FetchCurrentUser(ctx)
}

// Invest validates the amount against the lowest level's minimum deposit
// before anything goes over the wire.
func (a *App) Invest(ctx context.Context, amount decimal.Decimal) (Result, error) {
	minDeposit := levels.Lowest().MinDeposit
	if amount.LessThan(minDeposit) {
		err := &ValidationError{Msg: fmt.Sprintf("Минимальная сумма инвестиции: %s USDT", minDeposit)}
		a.notify.Error(err.Msg)
		return Result{}, err
	}
	if err := a.gw.Invest(ctx, a.id, amount); err != nil {
		a.notify.Error(err.Error())
		return Result{}, err
	}
	a.notify.Success("Инвестиция успешно создана!")
	return a.refreshAfter(ctx, "invest")
}

func (a *App) Withdraw(ctx context.Context, amount decimal.Decimal) (Result, error) {
	if amount.LessThan(decimal.NewFromInt(minWithdraw)) {
		err := &ValidationError{Msg: fmt.Sprintf("Минимальная сумма вывода: %d USDT", minWithdraw)}
		a.notify.Error(err.Msg)
		return Result{}, err
	}
	if err := a.gw.Withdraw(ctx, a.id, amount); err != nil {
		a.notify.Error(err.Error())
		return Result{}, err
	}
	a.notify.Success("Заявка на вывод успешно создана!")
	return a.refreshAfter(ctx, "withdraw")
}

func (a *App) PurchaseUpgrade(ctx context.Context, id domain.UpgradeID) (Result, error) {
	if err := a.gw.PurchaseUpgrade(ctx, id); err != nil {
		a.notify.Error(err.Error())
		return Result{}, err
	}
	a.notify.Success("Апгрейд успешно куплен")
	return a.refreshAfter(ctx, "upgrade")
}

// CopyReferralLink puts the deep link on the system clipboard.
func (a *App) CopyReferralLink() (Result, error) {
	snap := a.store.Get()
	if snap.User == nil {
		err := &ValidationError{Msg: "Данные пользователя не загружены"}
		a.notify.Error(err.Msg)
		return Result{}, err
	}
	link := view.ReferralLink(a.botName, snap.User.ReferralCode)
	if err := clipboard.WriteAll(link); err != nil {
		a.notify.Error("Не удалось скопировать ссылку")
		return Result{}, err
	}
	a.notify.Success("Реферальная ссылка скопирована!")
	return Result{}, nil
}

// Login exchanges the Telegram identity for a backend session.
func (a *App) Login(ctx context.Context, identity domain.TelegramIdentity) (Result, error) {
	if _, err := a.gw.Authenticate(ctx, identity); err != nil {
		a.notify.Error(err.Error())
		return Result{}, err
	}
	a.notify.Success("Успешная авторизация")
	return a.refreshAfter(ctx, "login")
}

func (a *App) Logout(ctx context.Context) (Result, error) {
	if err := a.gw.Logout(ctx); err != nil {
		a.notify.Error("Ошибка при выходе из системы")
		return Result{}, err
	}
	a.store.Clear()
	a.notify.Success("Успешный выход из системы")
	return Result{}, nil
}

// Referrals and Top are read-through: loaded on demand, not kept in the store.
func (a *App) Referrals(ctx context.Context) ([]domain.ReferralEntry, error) {
	id := a.id
	if id == 0 {
		if u := a.store.Get().User; u != nil {
			id = u.TelegramID
		}
	}
	return a.gw.FetchReferrals(ctx, id)
}

func (a *App) Top(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return a.gw.FetchTop(ctx)
}

func (a *App) refreshAfter(ctx context.Context, action string) (Result, error) {
	if err := a.Refresh(ctx); err != nil {
		// The action itself succeeded; report the refresh failure separately.
		a.log.Warn("refresh after action failed", zap.String("action", action), zap.Error(err))
		a.notify.Error(err.Error())
		return Result{RequiresRefresh: true}, err
	}
	return Result{RequiresRefresh: true}, nil
}

// ensure the full client satisfies the interface
var _ Gateway = (*gateway.Client)(nil)
