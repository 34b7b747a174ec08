// Package levels holds the fixed level ladder of the game. The table is the
// single canonical copy: both the dashboard and the bot read from here.
package levels

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/emoread23/miniapp23/internal/domain"
)

var ErrUnknownLevel = fmt.Errorf("неизвестный уровень")

type Definition struct {
	Name              domain.LevelName
	MinDeposit        decimal.Decimal
	IncomePercent     int
	ReferralsRequired int
}

// Ordered ladder, lowest first. MinDeposit, IncomePercent and
// ReferralsRequired are strictly increasing down the list.
var ladder = []Definition{
	{Name: "Новичок", MinDeposit: decimal.NewFromInt(50), IncomePercent: 10, ReferralsRequired: 3},
	{Name: "Трейдер", MinDeposit: decimal.NewFromInt(100), IncomePercent: 15, ReferralsRequired: 6},
	{Name: "Инвестор", MinDeposit: decimal.NewFromInt(200), IncomePercent: 20, ReferralsRequired: 9},
	{Name: "Магнат", MinDeposit: decimal.NewFromInt(500), IncomePercent: 25, ReferralsRequired: 12},
	{Name: "Император", MinDeposit: decimal.NewFromInt(1000), IncomePercent: 30, ReferralsRequired: 15},
}

var byName = func() map[domain.LevelName]int {
	m := make(map[domain.LevelName]int, len(ladder))
	for i, d := range ladder {
		m[d.Name] = i
	}
	return m
}()

func init() {
	for i := 1; i < len(ladder); i++ {
		prev, cur := ladder[i-1], ladder[i]
		if !cur.MinDeposit.GreaterThan(prev.MinDeposit) ||
			cur.IncomePercent <= prev.IncomePercent ||
			cur.ReferralsRequired <= prev.ReferralsRequired {
			panic(fmt.Sprintf("levels: ladder not strictly increasing at %q", cur.Name))
		}
	}
}

// Lookup returns the definition for name, or ErrUnknownLevel.
func Lookup(name domain.LevelName) (Definition, error) {
	i, ok := byName[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	return ladder[i], nil
}

// Next returns the level after name in the ladder, or nil at the maximum.
func Next(name domain.LevelName) (*Definition, error) {
	i, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	if i == len(ladder)-1 {
		return nil, nil
	}
	d := ladder[i+1]
	return &d, nil
}

// Lowest returns the first level of the ladder. Its MinDeposit is the
// minimum accepted investment anywhere in the app.
func Lowest() Definition { return ladder[0] }

// All returns the ladder in order, lowest first.
func All() []Definition {
	out := make([]Definition, len(ladder))
	copy(out, ladder)
	return out
}
