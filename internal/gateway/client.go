// Package gateway is the thin typed client over the Mini App backend. One
// method per endpoint, one request per call; retries are the caller's call.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/emoread23/miniapp23/internal/domain"
)

const respBodyLimit = 1 << 20

// LevelInfo is the wire form of a level definition as /api/levels sends it.
type LevelInfo struct {
	MinDeposit        decimal.Decimal `json:"minDeposit"`
	IncomePercent     int             `json:"incomePercent"`
	ReferralsRequired int             `json:"referralsNeeded"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New builds a client for the given base URL. The cookie jar carries the
// backend session issued by Authenticate.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		log: log,
	}
}

// envelope is the {success, data, error} wrapper most endpoints use.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, serverErr(0, err.Error())
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, 0, serverErr(0, err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.Error(err))
		return nil, 0, serverErr(0, err.Error())
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, respBodyLimit))
	if err != nil {
		return nil, resp.StatusCode, serverErr(resp.StatusCode, err.Error())
	}
	c.log.Debug("request done", zap.String("path", path), zap.Int("status", resp.StatusCode))
	return raw, resp.StatusCode, nil
}

// backendMessage digs the human-readable error text out of an error body.
func backendMessage(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return string(raw)
}

// FetchUser loads a profile addressed by telegram id (no session required).
func (c *Client) FetchUser(ctx context.Context, id domain.TelegramID) (domain.UserProfile, error) {
	raw, status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/user/%d", id), nil)
	if err != nil {
		return domain.UserProfile{}, err
	}
	switch {
	case status == http.StatusNotFound:
		return domain.UserProfile{}, ErrNotFound
	case status != http.StatusOK:
		return domain.UserProfile{}, serverErr(status, backendMessage(raw))
	}
	var p domain.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.UserProfile{}, serverErr(status, err.Error())
	}
	return p, nil
}

// FetchCurrentUser loads the profile bound to the backend session cookie.
func (c *Client) FetchCurrentUser(ctx context.Context) (domain.UserProfile, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/user/me", nil)
	if err != nil {
		return domain.UserProfile{}, err
	}
	switch {
	case status == http.StatusUnauthorized:
		return domain.UserProfile{}, ErrUnauthenticated
	case status == http.StatusNotFound:
		return domain.UserProfile{}, ErrNotFound
	case status != http.StatusOK:
		return domain.UserProfile{}, serverErr(status, backendMessage(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.UserProfile{}, serverErr(status, err.Error())
	}
	if !env.Success {
		return domain.UserProfile{}, ErrUnauthenticated
	}
	var p domain.UserProfile
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return domain.UserProfile{}, serverErr(status, err.Error())
	}
	return p, nil
}

func (c *Client) Invest(ctx context.Context, id domain.TelegramID, amount decimal.Decimal) error {
	body := map[string]any{"telegram_id": id, "amount": amount}
	raw, status, err := c.do(ctx, http.MethodPost, "/api/invest", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return serverErr(status, backendMessage(raw))
	}
	return nil
}

func (c *Client) Withdraw(ctx context.Context, id domain.TelegramID, amount decimal.Decimal) error {
	body := map[string]any{"telegram_id": id, "amount": amount}
	raw, status, err := c.do(ctx, http.MethodPost, "/api/withdraw", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return serverErr(status, backendMessage(raw))
	}
	return nil
}

func (c *Client) FetchLevels(ctx context.Context) (map[domain.LevelName]LevelInfo, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/levels", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, serverErr(status, backendMessage(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, serverErr(status, err.Error())
	}
	var out map[domain.LevelName]LevelInfo
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, serverErr(status, err.Error())
	}
	return out, nil
}

func (c *Client) FetchUpgrades(ctx context.Context) ([]domain.Upgrade, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/upgrades", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, serverErr(status, backendMessage(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, serverErr(status, err.Error())
	}
	var out []domain.Upgrade
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, serverErr(status, err.Error())
	}
	return out, nil
}

// PurchaseUpgrade spends balance on an upgrade. A refusal for lack of funds
// comes back as ErrInsufficientBalance.
func (c *Client) PurchaseUpgrade(ctx context.Context, id domain.UpgradeID) error {
	raw, status, err := c.do(ctx, http.MethodPost, "/api/upgrade", map[string]any{"upgrade_id": id})
	if err != nil {
		return err
	}
	var env envelope
	if json.Unmarshal(raw, &env) == nil && !env.Success && env.Error != "" {
		if env.Error == ErrInsufficientBalance.Error() {
			return ErrInsufficientBalance
		}
		return serverErr(status, env.Error)
	}
	if status != http.StatusOK {
		return serverErr(status, backendMessage(raw))
	}
	return nil
}

func (c *Client) FetchAchievements(ctx context.Context) ([]domain.Achievement, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/achievements", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, serverErr(status, backendMessage(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, serverErr(status, err.Error())
	}
	var out []domain.Achievement
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, serverErr(status, err.Error())
	}
	return out, nil
}

func (c *Client) FetchReferrals(ctx context.Context, id domain.TelegramID) ([]domain.ReferralEntry, error) {
	raw, status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/referrals/%d", id), nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	case status != http.StatusOK:
		return nil, serverErr(status, backendMessage(raw))
	}
	var out []domain.ReferralEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, serverErr(status, err.Error())
	}
	return out, nil
}

// FetchTop returns the leaderboard in backend rank order.
func (c *Client) FetchTop(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/top", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, serverErr(status, backendMessage(raw))
	}
	var out []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, serverErr(status, err.Error())
	}
	return out, nil
}

// Authenticate exchanges the Telegram identity payload for a backend session.
// The session cookie lands in the client's jar.
func (c *Client) Authenticate(ctx context.Context, identity domain.TelegramIdentity) (domain.UserProfile, error) {
	raw, status, err := c.do(ctx, http.MethodPost, "/api/auth/telegram", identity)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if status == http.StatusUnauthorized {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", ErrAuthFailed, backendMessage(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.UserProfile{}, serverErr(status, err.Error())
	}
	if !env.Success {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", ErrAuthFailed, env.Error)
	}
	var p domain.UserProfile
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return domain.UserProfile{}, serverErr(status, err.Error())
	}
	return p, nil
}

func (c *Client) Logout(ctx context.Context) error {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/logout", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return serverErr(status, backendMessage(raw))
	}
	return nil
}
