package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emoread23/miniapp23/internal/app"
	"github.com/emoread23/miniapp23/internal/countdown"
	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/nav"
	"github.com/emoread23/miniapp23/internal/state"
	"github.com/emoread23/miniapp23/internal/view"
)

// Notifier prints transient success/error messages to the terminal. It is
// what the action handlers talk to instead of the document's modal windows.
type Notifier struct {
	out io.Writer
}

func NewNotifier(out io.Writer) *Notifier { return &Notifier{out: out} }

func (n *Notifier) Success(msg string) { fmt.Fprintln(n.out, "✅", msg) }
func (n *Notifier) Error(msg string)   { fmt.Fprintln(n.out, "❌", msg) }

type UI struct {
	app      *app.App
	store    *state.Store
	nav      *nav.Controller
	notify   *Notifier
	identity domain.TelegramIdentity
	botName  string
	in       *bufio.Reader
	out      io.Writer
	now      func() time.Time
}

func NewUI(a *app.App, store *state.Store, notify *Notifier, identity domain.TelegramIdentity, botName string, in *bufio.Reader, out io.Writer) *UI {
	return &UI{
		app:      a,
		store:    store,
		nav:      nav.NewController(),
		notify:   notify,
		identity: identity,
		botName:  botName,
		in:       in,
		out:      out,
		now:      time.Now,
	}
}

// RequireAuth keeps the auth modal up until a session exists or the user
// gives up. Nothing else is reachable while the modal is open.
func (ui *UI) RequireAuth(ctx context.Context) bool {
	if ui.store.Get().User != nil {
		return true
	}
	ui.nav.OpenModal(nav.ModalAuth)
	for ui.nav.ActiveModal() == nav.ModalAuth {
		fmt.Fprintln(ui.out, "\n=== Авторизация ===")
		fmt.Fprintln(ui.out, "1) Войти через Telegram")
		fmt.Fprintln(ui.out, "0) Выход")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			if _, err := ui.app.Login(ctx, ui.identity); err == nil {
				ui.nav.CloseModal()
				return true
			}
		default:
			ui.nav.CloseModal()
			return false
		}
	}
	return true
}

func (ui *UI) Run(ctx context.Context) {
	for {
		ui.renderActive(ctx)
		fmt.Fprintln(ui.out, "\n=== Меню ===")
		fmt.Fprintln(ui.out, "1) Главная")
		fmt.Fprintln(ui.out, "2) Рефералы")
		fmt.Fprintln(ui.out, "3) Улучшения")
		fmt.Fprintln(ui.out, "4) Достижения")
		fmt.Fprintln(ui.out, "5) Топ игроков")
		fmt.Fprintln(ui.out, "6) Инвестировать")
		fmt.Fprintln(ui.out, "7) Вывести средства")
		fmt.Fprintln(ui.out, "8) Купить улучшение")
		fmt.Fprintln(ui.out, "9) Скопировать реферальную ссылку")
		fmt.Fprintln(ui.out, "10) Таймер выплаты")
		fmt.Fprintln(ui.out, "11) Обновить данные")
		fmt.Fprintln(ui.out, "0) Выход из аккаунта")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.nav.Go(nav.ScreenDashboard)
		case "2":
			ui.nav.Go(nav.ScreenReferrals)
		case "3":
			ui.nav.Go(nav.ScreenUpgrades)
		case "4":
			ui.nav.Go(nav.ScreenAchievements)
		case "5":
			ui.nav.Go(nav.ScreenTop)
		case "6":
			ui.invest(ctx)
		case "7":
			ui.withdraw(ctx)
		case "8":
			ui.purchase(ctx)
		case "9":
			ui.app.CopyReferralLink()
		case "10":
			ui.watchPayout(ctx)
		case "11":
			if err := ui.app.Refresh(ctx); err != nil {
				ui.notify.Error(err.Error())
			}
		default:
			if _, err := ui.app.Logout(ctx); err == nil {
				return
			}
			return
		}
	}
}

func (ui *UI) renderActive(ctx context.Context) {
	fmt.Fprintln(ui.out)
	switch ui.nav.Active() {
	case nav.ScreenReferrals:
		fmt.Fprintln(ui.out, "=== Рефералы ===")
		refs, err := ui.app.Referrals(ctx)
		if err != nil {
			ui.notify.Error(err.Error())
			return
		}
		view.Referrals(ui.out, refs)
	case nav.ScreenUpgrades:
		fmt.Fprintln(ui.out, "=== Улучшения ===")
		view.Upgrades(ui.out, ui.store.Get())
	case nav.ScreenAchievements:
		fmt.Fprintln(ui.out, "=== Достижения ===")
		view.Achievements(ui.out, ui.store.Get())
	case nav.ScreenTop:
		fmt.Fprintln(ui.out, "=== Топ игроков ===")
		top, err := ui.app.Top(ctx)
		if err != nil {
			ui.notify.Error(err.Error())
			return
		}
		view.Top(ui.out, top)
	default:
		fmt.Fprintln(ui.out, "=== Главная ===")
		view.Dashboard(ui.out, ui.store.Get(), ui.now(), ui.botName)
	}
}

func (ui *UI) invest(ctx context.Context) {
	amt, ok := ui.readAmount("Сумма инвестиции (USDT): ")
	if !ok {
		return
	}
	ui.app.Invest(ctx, amt)
}

func (ui *UI) withdraw(ctx context.Context) {
	amt, ok := ui.readAmount("Сумма вывода (USDT): ")
	if !ok {
		return
	}
	ui.app.Withdraw(ctx, amt)
}

func (ui *UI) purchase(ctx context.Context) {
	fmt.Fprint(ui.out, "ID улучшения: ")
	id := strings.TrimSpace(ui.readLine())
	if id == "" {
		return
	}
	ui.app.PurchaseUpgrade(ctx, domain.UpgradeID(id))
}

// watchPayout shows the live countdown until Enter is pressed.
func (ui *UI) watchPayout(ctx context.Context) {
	if u := ui.store.Get().User; u == nil || u.NextPayoutAt == nil {
		fmt.Fprintln(ui.out, "Время следующей выплаты неизвестно")
		return
	}
	fmt.Fprintln(ui.out, "Нажмите Enter, чтобы вернуться в меню")

	wctx, cancel := context.WithCancel(ctx)
	go func() {
		_, _ = ui.in.ReadString('\n')
		cancel()
	}()

	tk := &countdown.Ticker{
		Now: ui.now,
		OnTick: func(s string) {
			fmt.Fprintf(ui.out, "\r⏳ До выплаты: %s ", s)
		},
	}
	tk.Run(wctx, func() *time.Time {
		if u := ui.store.Get().User; u != nil {
			return u.NextPayoutAt
		}
		return nil
	})
	cancel()
	fmt.Fprintln(ui.out)
}

func (ui *UI) readLine() string {
	s, _ := ui.in.ReadString('\n')
	return strings.TrimRight(s, "\r\n")
}

func (ui *UI) readAmount(prompt string) (decimal.Decimal, bool) {
	for {
		fmt.Fprint(ui.out, prompt)
		raw := strings.TrimSpace(ui.readLine())
		if raw == "" {
			return decimal.Zero, false
		}
		raw = strings.ReplaceAll(raw, ",", ".")
		d, err := decimal.NewFromString(raw)
		if err != nil {
			fmt.Fprintln(ui.out, "Неверный формат. Пример: 100.50")
			continue
		}
		return d, true
	}
}
