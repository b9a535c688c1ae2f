package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// ResolveTaxPolicy returns the most recent policy at or before year for the
// filing status, with thresholds and the standard deduction scaled by
// (1+inflation)^(year-policy.year). A target year earlier than every stored
// policy is an input error, never a silent zero-tax fallback.
func ResolveTaxPolicy(policies []domain.TaxPolicy, year int, status domain.FilingStatus) (*domain.TaxPolicy, error) {
	var best *domain.TaxPolicy
	for i := range policies {
		p := &policies[i]
		if p.FilingStatus != status || p.Year > year {
			continue
		}
		if best == nil || p.Year > best.Year {
			best = p
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: year %d filing status %s", domain.ErrNoTaxPolicy, year, status)
	}

	factor := compound(best.InflationRate, year-best.Year)
	resolved := domain.TaxPolicy{
		Year:              year,
		FilingStatus:      best.FilingStatus,
		StandardDeduction: best.StandardDeduction.Mul(factor),
		InflationRate:     best.InflationRate,
	}
	resolved.Brackets = inflateBrackets(best.Brackets, factor)
	resolved.CapitalGains = inflateBrackets(best.CapitalGains, factor)
	return &resolved, nil
}

func inflateBrackets(brackets []domain.TaxBracket, factor decimal.Decimal) []domain.TaxBracket {
	out := make([]domain.TaxBracket, len(brackets))
	for i, b := range brackets {
		out[i] = domain.TaxBracket{Rate: b.Rate}
		if b.UpTo != nil {
			scaled := b.UpTo.Mul(factor)
			out[i].UpTo = &scaled
		}
	}
	return out
}

// OrdinaryTax computes bracketed tax on taxable ordinary income.
func OrdinaryTax(taxable decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	tax := decimal.Zero
	lower := decimal.Zero
	for _, b := range brackets {
		upper := taxable
		if b.UpTo != nil && b.UpTo.LessThan(taxable) {
			upper = *b.UpTo
		}
		span := upper.Sub(lower)
		if span.IsPositive() {
			tax = tax.Add(span.Mul(decimal.NewFromFloat(b.Rate)))
		}
		if b.UpTo == nil || !b.UpTo.LessThan(taxable) {
			break
		}
		lower = *b.UpTo
	}
	return tax
}

// CapitalGainsTax computes tax on net long-term gains stacked on top of
// taxable ordinary income: the gains occupy the bracket space starting where
// ordinary income ends.
func CapitalGainsTax(gains, taxableOrdinary decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if !gains.IsPositive() {
		return decimal.Zero
	}
	floor := taxableOrdinary
	if floor.IsNegative() {
		floor = decimal.Zero
	}
	top := floor.Add(gains)

	tax := decimal.Zero
	lower := decimal.Zero
	for _, b := range brackets {
		upper := top
		if b.UpTo != nil && b.UpTo.LessThan(top) {
			upper = *b.UpTo
		}
		// The slice of this bracket occupied by gains.
		from := decimal.Max(lower, floor)
		if upper.GreaterThan(from) {
			tax = tax.Add(upper.Sub(from).Mul(decimal.NewFromFloat(b.Rate)))
		}
		if b.UpTo == nil || !b.UpTo.LessThan(top) {
			break
		}
		lower = *b.UpTo
	}
	return tax
}

// BracketTop returns the inflated upper threshold of the bracket with the
// given rate, used by fill-to-bracket conversions. Returns false when no
// bracket carries that rate or it is the open-ended top bracket.
func BracketTop(policy *domain.TaxPolicy, rate float64) (decimal.Decimal, bool) {
	for _, b := range policy.Brackets {
		if b.Rate == rate {
			if b.UpTo == nil {
				return decimal.Zero, false
			}
			return *b.UpTo, true
		}
	}
	return decimal.Zero, false
}
