package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TelegramID int64
type LevelName string
type UpgradeID string

// UserProfile is the backend's view of the authenticated player. The client
// never patches it field by field: every refresh replaces the whole value.
type UserProfile struct {
	TelegramID       TelegramID      `json:"telegram_id"`
	Username         string          `json:"username"`
	Level            LevelName       `json:"level"`
	Balance          decimal.Decimal `json:"balance"`
	TotalDeposit     decimal.Decimal `json:"total_deposit"`
	TotalWithdraw    decimal.Decimal `json:"total_withdraw"`
	ReferralCount    int             `json:"referral_count"`
	ReferralEarnings decimal.Decimal `json:"referral_earnings"`
	ReferralCode     string          `json:"referral_code"`
	NextLevel        LevelName       `json:"next_level,omitempty"`
	ProgressPercent  float64         `json:"progress"`
	NextPayoutAt     *time.Time      `json:"next_income,omitempty"`
}

type Upgrade struct {
	ID           UpgradeID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	BonusPercent int             `json:"bonus"`
	Price        decimal.Decimal `json:"price"`
}

// Affordable reports whether the given balance covers the upgrade price.
func (u Upgrade) Affordable(balance decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(u.Price)
}

type Achievement struct {
	Icon            string  `json:"icon"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	ProgressPercent float64 `json:"progress"`
}

type ReferralEntry struct {
	Username       string          `json:"username"`
	Level          LevelName       `json:"level"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
}

type LeaderboardEntry struct {
	Username       string          `json:"username"`
	Level          LevelName       `json:"level"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	ReferralCount  int             `json:"referral_count"`
}

// TelegramIdentity is the identity payload handed over by the hosting
// Telegram client; it is forwarded verbatim to the auth endpoint.
type TelegramIdentity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AuthDate  int64  `json:"auth_date,omitempty"`
	Hash      string `json:"hash,omitempty"`
}
