package app_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emoread23/miniapp23/internal/app"
	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/gateway"
	"github.com/emoread23/miniapp23/internal/state"
)

type fakeGateway struct {
	profile domain.UserProfile

	investErr   error
	purchaseErr error

	investCalls    int
	withdrawCalls  int
	purchaseCalls  int
	fetchUserCalls int
}

func (f *fakeGateway) FetchUser(_ context.Context, _ domain.TelegramID) (domain.UserProfile, error) {
	f.fetchUserCalls++
	return f.profile, nil
}

func (f *fakeGateway) FetchCurrentUser(_ context.Context) (domain.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeGateway) Invest(_ context.Context, _ domain.TelegramID, _ decimal.Decimal) error {
	f.investCalls++
	return f.investErr
}

func (f *fakeGateway) Withdraw(_ context.Context, _ domain.TelegramID, _ decimal.Decimal) error {
	f.withdrawCalls++
	return nil
}

func (f *fakeGateway) FetchLevels(_ context.Context) (map[domain.LevelName]gateway.LevelInfo, error) {
	return map[domain.LevelName]gateway.LevelInfo{
		f.profile.Level: {MinDeposit: decimal.NewFromInt(50), IncomePercent: 10, ReferralsRequired: 3},
	}, nil
}

func (f *fakeGateway) FetchUpgrades(_ context.Context) ([]domain.Upgrade, error) {
	return nil, nil
}

func (f *fakeGateway) PurchaseUpgrade(_ context.Context, _ domain.UpgradeID) error {
	f.purchaseCalls++
	return f.purchaseErr
}

func (f *fakeGateway) FetchAchievements(_ context.Context) ([]domain.Achievement, error) {
	return nil, nil
}

func (f *fakeGateway) FetchReferrals(_ context.Context, _ domain.TelegramID) ([]domain.ReferralEntry, error) {
	return nil, nil
}

func (f *fakeGateway) FetchTop(_ context.Context) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeGateway) Authenticate(_ context.Context, _ domain.TelegramIdentity) (domain.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeGateway) Logout(_ context.Context) error { return nil }

type fakeNotifier struct {
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *fakeNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func newApp(gw *fakeGateway) (*app.App, *state.Store, *fakeNotifier) {
	store := state.NewStore()
	notify := &fakeNotifier{}
	return app.New(gw, store, notify, zap.NewNop(), 7, "invest_bot"), store, notify
}

func profileNamed(name string) domain.UserProfile {
	return domain.UserProfile{
		TelegramID: 7,
		Username:   name,
		Level:      "Новичок",
		Balance:    decimal.NewFromInt(100),
	}
}

func TestInvestBelowMinimumShortCircuits(t *testing.T) {
	gw := &fakeGateway{profile: profileNamed("ivan")}
	a, _, notify := newApp(gw)

	_, err := a.Invest(context.Background(), decimal.NewFromInt(10))

	var verr *app.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, gw.investCalls, "gateway must not be called on invalid input")
	assert.Zero(t, gw.fetchUserCalls)
	require.Len(t, notify.errors, 1)
	assert.Contains(t, notify.errors[0], "Минимальная сумма инвестиции: 50")
}

func TestWithdrawBelowMinimumShortCircuits(t *testing.T) {
	gw := &fakeGateway{profile: profileNamed("ivan")}
	a, _, notify := newApp(gw)

	_, err := a.Withdraw(context.Background(), decimal.NewFromFloat(0.5))

	var verr *app.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, gw.withdrawCalls)
	require.Len(t, notify.errors, 1)
	assert.Contains(t, notify.errors[0], "Минимальная сумма вывода: 1")
}

func TestInvestSuccessRefreshesFromBackend(t *testing.T) {
	gw := &fakeGateway{profile: profileNamed("ivan")}
	a, store, notify := newApp(gw)
	require.NoError(t, a.Refresh(context.Background()))

	// The backend is the only source of the post-action profile.
	gw.profile = profileNamed("ivan-after")

	res, err := a.Invest(context.Background(), decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, res.RequiresRefresh)
	assert.Equal(t, 1, gw.investCalls)
	assert.Equal(t, "ivan-after", store.Get().User.Username)
	require.Len(t, notify.successes, 1)
}

func TestActionFailureLeavesStateIntact(t *testing.T) {
	gw := &fakeGateway{profile: profileNamed("ivan")}
	a, store, notify := newApp(gw)
	require.NoError(t, a.Refresh(context.Background()))

	gw.investErr = &gateway.ServerError{Status: 500, Message: "backend down"}
	gw.profile = profileNamed("never-applied")

	_, err := a.Invest(context.Background(), decimal.NewFromInt(60))
	require.Error(t, err)
	assert.Equal(t, "ivan", store.Get().User.Username)
	require.NotEmpty(t, notify.errors)
	assert.Contains(t, notify.errors[0], "backend down")
}

func TestPurchaseUpgradeInsufficientBalance(t *testing.T) {
	gw := &fakeGateway{profile: profileNamed("ivan"), purchaseErr: gateway.ErrInsufficientBalance}
	a, _, notify := newApp(gw)

	_, err := a.PurchaseUpgrade(context.Background(), "income_boost_2")
	require.ErrorIs(t, err, gateway.ErrInsufficientBalance)
	assert.Equal(t, 1, gw.purchaseCalls)
	require.Len(t, notify.errors, 1)
	assert.Contains(t, notify.errors[0], "недостаточно средств")
}

func TestLogoutClearsStore(t *testing.T) {
	gw := &fakeGateway{profile: profileNamed("ivan")}
	a, store, _ := newApp(gw)
	require.NoError(t, a.Refresh(context.Background()))
	require.NotNil(t, store.Get().User)

	_, err := a.Logout(context.Background())
	require.NoError(t, err)
	assert.Nil(t, store.Get().User)
}
