package engine

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// Context is everything one month's module run may read: the calendar
// position, the snapshot, and the small amount of intra-month coordination
// state (the spending shortfall deferred to the cash buffer). It is rebuilt
// every month; modules never retain it across month boundaries.
type Context struct {
	Snapshot *domain.Snapshot
	// Index is the zero-based month index from the scenario start.
	Index int
	// Date is the first day of the simulated month.
	Date time.Time
	// YearEnd is true in the month that closes the calendar year (December,
	// or the final month of the horizon).
	YearEnd bool
	// FinalMonth is true in the last simulated month.
	FinalMonth bool
	// Shortfall is spending the spending module could not cover from cash,
	// deferred to the cash-buffer module within the same month.
	Shortfall decimal.Decimal
	// Rand is the run's seeded source for the random return model.
	Rand *rand.Rand
}

// AgeOf returns a person's age in whole years this month.
func (c *Context) AgeOf(p *domain.Person) int {
	return p.AgeAt(c.Date)
}

// AgeInMonthsOf returns a person's age in months this month.
func (c *Context) AgeInMonthsOf(p *domain.Person) int {
	return p.AgeInMonthsAt(c.Date)
}

// InflationFactor compounds the snapshot's inflation rate from the scenario
// start to this month's year.
func (c *Context) InflationFactor() decimal.Decimal {
	years := c.Date.Year() - c.Snapshot.Start.Year()
	return compound(c.Snapshot.InflationRate, years)
}

// compound returns (1+rate)^years as a decimal factor.
func compound(rate float64, years int) decimal.Decimal {
	if years <= 0 || rate == 0 {
		return decimal.NewFromInt(1)
	}
	factor := 1.0
	for i := 0; i < years; i++ {
		factor *= 1 + rate
	}
	return decimal.NewFromFloat(factor)
}
