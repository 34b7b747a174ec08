// Package view projects state snapshots onto plain text. Renderers are pure:
// the same snapshot always produces the same output, so they can be re-run
// after every refresh and every countdown tick without side effects.
package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emoread23/miniapp23/internal/countdown"
	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/levels"
	"github.com/emoread23/miniapp23/internal/state"
)

const (
	noReferralsMsg = "У вас пока нет рефералов"
	emptyTopMsg    = "Топ игроков пока пуст"
	noUpgradesMsg  = "Улучшения пока недоступны"
	maxLevelMsg    = "Вы достигли максимального уровня!"
)

// Progress returns the level progress percent, clamped to [0,100].
func Progress(totalDeposit, minDeposit decimal.Decimal) float64 {
	if !minDeposit.IsPositive() {
		return 0
	}
	p, _ := totalDeposit.Div(minDeposit).Mul(decimal.NewFromInt(100)).Float64()
	return clamp(p)
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Dashboard renders the main screen. now feeds the payout countdown so the
// output stays a pure function of its arguments.
func Dashboard(w io.Writer, snap state.Snapshot, now time.Time, botName string) {
	u := snap.User
	if u == nil {
		fmt.Fprintln(w, "Данные пользователя не загружены")
		return
	}
	fmt.Fprintf(w, "👤 %s — уровень: %s\n", u.Username, u.Level)
	fmt.Fprintf(w, "💰 Баланс: %s USDT\n", amt(u.Balance))
	fmt.Fprintf(w, "📥 Инвестировано: %s USDT | 📤 Выведено: %s USDT\n", amt(u.TotalDeposit), amt(u.TotalWithdraw))
	fmt.Fprintf(w, "👥 Рефералы: %d | Доход с рефералов: %s USDT\n", u.ReferralCount, amt(u.ReferralEarnings))
	fmt.Fprintf(w, "🔗 Код: %s\n", u.ReferralCode)
	fmt.Fprintf(w, "🔗 Ссылка: %s\n", ReferralLink(botName, u.ReferralCode))

	if snap.CurrentLevel != nil {
		p := Progress(u.TotalDeposit, snap.CurrentLevel.MinDeposit)
		fmt.Fprintf(w, "Прогресс уровня: %s %.0f%% (%s/%s USDT)\n",
			bar(p), p, amt(u.TotalDeposit), amt(snap.CurrentLevel.MinDeposit))
	}
	fmt.Fprintln(w, nextLevelHint(u))

	if u.NextPayoutAt != nil {
		fmt.Fprintf(w, "⏳ До выплаты: %s\n", countdown.Format(u.NextPayoutAt.Sub(now)))
	}
}

// ReferralLink builds the bot deep link for a referral code.
func ReferralLink(botName, code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botName, code)
}

func nextLevelHint(u *domain.UserProfile) string {
	next, err := levels.Next(u.Level)
	if err != nil {
		return fmt.Sprintf("Уровень %q не распознан", u.Level)
	}
	if next == nil {
		return maxLevelMsg
	}
	need := next.ReferralsRequired - u.ReferralCount
	if need < 0 {
		need = 0
	}
	return fmt.Sprintf("Следующий уровень: %s (нужно еще %d рефералов)", next.Name, need)
}

// Upgrades renders one card per upgrade; unaffordable ones are marked
// instead of offering a purchase control.
func Upgrades(w io.Writer, snap state.Snapshot) {
	if len(snap.Upgrades) == 0 {
		fmt.Fprintln(w, noUpgradesMsg)
		return
	}
	balance := decimal.Zero
	if snap.User != nil {
		balance = snap.User.Balance
	}
	for _, up := range snap.Upgrades {
		fmt.Fprintf(w, "— %s: %s\n", up.Name, up.Description)
		fmt.Fprintf(w, "  Бонус: %d%% | Цена: %s USDT", up.BonusPercent, amt(up.Price))
		if up.Affordable(balance) {
			fmt.Fprintf(w, " | Купить: %s\n", up.ID)
		} else {
			fmt.Fprintln(w, " | Недостаточно средств")
		}
	}
}

func Achievements(w io.Writer, snap state.Snapshot) {
	if len(snap.Achievements) == 0 {
		fmt.Fprintln(w, "Достижений пока нет")
		return
	}
	for _, a := range snap.Achievements {
		p := clamp(a.ProgressPercent)
		fmt.Fprintf(w, "%s %s — %s\n", a.Icon, a.Name, a.Description)
		fmt.Fprintf(w, "  %s %.0f%%\n", bar(p), p)
	}
}

func Referrals(w io.Writer, list []domain.ReferralEntry) {
	if len(list) == 0 {
		fmt.Fprintln(w, noReferralsMsg)
		return
	}
	for _, r := range list {
		fmt.Fprintf(w, "— %s | уровень: %s | инвестировано: %s USDT\n",
			r.Username, r.Level, amt(r.InvestedAmount))
	}
}

// Top renders the leaderboard in the order the backend ranked it.
func Top(w io.Writer, list []domain.LeaderboardEntry) {
	if len(list) == 0 {
		fmt.Fprintln(w, emptyTopMsg)
		return
	}
	for i, p := range list {
		fmt.Fprintf(w, "#%d %s | уровень: %s | %s USDT | %d рефералов\n",
			i+1, p.Username, p.Level, amt(p.InvestedAmount), p.ReferralCount)
	}
}

func amt(d decimal.Decimal) string { return d.String() }

// bar draws a ten-segment progress bar for a percent in [0,100].
func bar(p float64) string {
	filled := int(p / 10)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", 10-filled) + "]"
}
