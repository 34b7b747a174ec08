package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/gateway"
	"github.com/emoread23/miniapp23/internal/state"
)

func testSnapshot() state.Snapshot {
	payout := time.Date(2025, 3, 1, 13, 1, 1, 0, time.UTC)
	return state.Snapshot{
		User: &domain.UserProfile{
			Username:         "ivan",
			Level:            "Новичок",
			Balance:          decimal.NewFromInt(120),
			TotalDeposit:     decimal.NewFromInt(75),
			ReferralCount:    1,
			ReferralEarnings: decimal.NewFromInt(5),
			ReferralCode:     "abc123",
			NextPayoutAt:     &payout,
		},
		CurrentLevel: &gateway.LevelInfo{
			MinDeposit:        decimal.NewFromInt(50),
			IncomePercent:     10,
			ReferralsRequired: 3,
		},
	}
}

func TestProgressClamped(t *testing.T) {
	// 75/50 would be 150%; the bar never exceeds 100.
	assert.Equal(t, float64(100), Progress(decimal.NewFromInt(75), decimal.NewFromInt(50)))
	assert.Equal(t, float64(50), Progress(decimal.NewFromInt(25), decimal.NewFromInt(50)))
	assert.Equal(t, float64(0), Progress(decimal.NewFromInt(10), decimal.Zero))
}

func TestDashboardIdempotent(t *testing.T) {
	snap := testSnapshot()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var a, b bytes.Buffer
	Dashboard(&a, snap, now, "invest_bot")
	Dashboard(&b, snap, now, "invest_bot")
	assert.Equal(t, a.String(), b.String())

	out := a.String()
	assert.Contains(t, out, "ivan")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "Следующий уровень: Трейдер (нужно еще 5 рефералов)")
	assert.Contains(t, out, "01:01:01")
	assert.Contains(t, out, "https://t.me/invest_bot?start=abc123")
}

func TestDashboardMaxLevel(t *testing.T) {
	snap := testSnapshot()
	snap.User.Level = "Император"

	var buf bytes.Buffer
	Dashboard(&buf, snap, time.Now(), "invest_bot")
	assert.Contains(t, buf.String(), "Вы достигли максимального уровня!")
}

func TestReferralsEmptyState(t *testing.T) {
	var buf bytes.Buffer
	Referrals(&buf, nil)
	assert.Equal(t, "У вас пока нет рефералов\n", buf.String())
}

func TestTopEmptyState(t *testing.T) {
	var buf bytes.Buffer
	Top(&buf, nil)
	assert.Equal(t, "Топ игроков пока пуст\n", buf.String())
}

func TestTopKeepsBackendOrder(t *testing.T) {
	var buf bytes.Buffer
	Top(&buf, []domain.LeaderboardEntry{
		{Username: "first", Level: "Магнат", InvestedAmount: decimal.NewFromInt(900), ReferralCount: 12},
		{Username: "second", Level: "Трейдер", InvestedAmount: decimal.NewFromInt(100), ReferralCount: 3},
	})
	out := buf.String()
	assert.Contains(t, out, "#1 first")
	assert.Contains(t, out, "#2 second")
}

func TestUpgradesAffordability(t *testing.T) {
	snap := testSnapshot()
	snap.Upgrades = []domain.Upgrade{
		{ID: "income_boost_1", Name: "Ускорение дохода I", BonusPercent: 5, Price: decimal.NewFromInt(100)},
		{ID: "income_boost_2", Name: "Ускорение дохода II", BonusPercent: 10, Price: decimal.NewFromInt(250)},
	}

	var buf bytes.Buffer
	Upgrades(&buf, snap)
	out := buf.String()
	assert.Contains(t, out, "Купить: income_boost_1")
	assert.Contains(t, out, "Недостаточно средств")
	assert.NotContains(t, out, "Купить: income_boost_2")
}
