// Package countdown renders the time left until the next income payout.
package countdown

import (
	"context"
	"fmt"
	"time"
)

// DueNow is shown once the payout moment has passed.
const DueNow = "Сейчас"

// Format renders remaining as zero-padded HH:MM:SS, or DueNow for anything
// at or past zero. Hours do not wrap at 24.
func Format(remaining time.Duration) string {
	if remaining <= 0 {
		return DueNow
	}
	total := int64(remaining / time.Second)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Ticker recomputes the countdown from the absolute payout time once per
// second. It stores no remaining-duration of its own, so it cannot drift and
// ticking past the deadline is a harmless repeat of DueNow.
type Ticker struct {
	Interval time.Duration    // defaults to time.Second
	Now      func() time.Time // defaults to time.Now
	OnTick   func(formatted string)
}

// Run emits one value immediately and then once per interval until ctx is
// done. payoutAt is fetched on every tick so a state refresh mid-run picks
// up a moved deadline.
func (t *Ticker) Run(ctx context.Context, payoutAt func() *time.Time) {
	interval := t.Interval
	if interval == 0 {
		interval = time.Second
	}
	now := t.Now
	if now == nil {
		now = time.Now
	}

	emit := func() {
		at := payoutAt()
		if at == nil {
			return
		}
		t.OnTick(Format(at.Sub(now())))
	}

	emit()
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			emit()
		}
	}
}
