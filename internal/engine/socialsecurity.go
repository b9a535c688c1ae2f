package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// fullRetirementAgeMonths is the full retirement age for everyone born 1960
// or later, in months.
const fullRetirementAgeMonths = 67 * 12

// aimeMonths is the statutory divisor: 35 years of indexed earnings.
const aimeMonths = 420

// ResolveSSBracket returns the most recent provisional-income bracket at or
// before year for the filing status.
func ResolveSSBracket(brackets []domain.SocialSecurityBracket, year int, status domain.FilingStatus) (*domain.SocialSecurityBracket, error) {
	var best *domain.SocialSecurityBracket
	for i := range brackets {
		b := &brackets[i]
		if b.FilingStatus != status || b.Year > year {
			continue
		}
		if best == nil || b.Year > best.Year {
			best = b
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: year %d filing status %s", domain.ErrNoSSBracket, year, status)
	}
	return best, nil
}

// TaxableSocialSecurity computes the taxable portion of annual benefits via
// the provisional-income two-tier formula. Pure: re-derivable from its five
// inputs, no ledger access.
//
// Provisional income is half of benefits plus all other ordinary income,
// capital gains and tax-exempt interest. Below the lower threshold nothing
// is taxable; between the thresholds up to tier1Rate of the excess (capped
// at tier1Rate of benefits); above the upper threshold tier2Rate of the
// excess plus the tier-one amount, capped at tier2Rate of benefits. The
// result is clamped to [0, benefits].
func TaxableSocialSecurity(benefits, ordinaryIncome, capitalGains, taxExemptIncome decimal.Decimal, bracket *domain.SocialSecurityBracket) decimal.Decimal {
	if !benefits.IsPositive() {
		return decimal.Zero
	}
	half := decimal.NewFromFloat(0.5)
	provisional := ordinaryIncome.Add(capitalGains).Add(taxExemptIncome).Add(benefits.Mul(half))

	tier1 := decimal.NewFromFloat(bracket.Tier1Rate)
	tier2 := decimal.NewFromFloat(bracket.Tier2Rate)

	var taxable decimal.Decimal
	switch {
	case !provisional.GreaterThan(bracket.LowerThreshold):
		taxable = decimal.Zero
	case !provisional.GreaterThan(bracket.UpperThreshold):
		taxable = decimal.Min(
			provisional.Sub(bracket.LowerThreshold).Mul(tier1),
			benefits.Mul(tier1),
		)
	default:
		tierOne := decimal.Min(
			bracket.UpperThreshold.Sub(bracket.LowerThreshold).Mul(tier1),
			benefits.Mul(tier1),
		)
		taxable = decimal.Min(
			provisional.Sub(bracket.UpperThreshold).Mul(tier2).Add(tierOne),
			benefits.Mul(tier2),
		)
	}

	if taxable.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(taxable, benefits)
}

// MonthlyBenefitAt derives a person's level monthly benefit as of their
// claim date: wage-indexed top-35 earnings to an AIME, bend-point PIA, then
// the early/delayed claiming adjustment against full retirement age. The
// result is fixed at claim time; COLA is applied by the caller going
// forward, never a recompute.
func MonthlyBenefitAt(p *domain.Person, strat *domain.SocialSecurityStrategy, snap *domain.Snapshot) decimal.Decimal {
	if strat.MonthlyBenefitOverride != nil {
		return *strat.MonthlyBenefitOverride
	}
	if len(p.EarningsHistory) == 0 || snap.BendPoints == nil {
		return decimal.Zero
	}

	aime := averageIndexedMonthlyEarnings(p, snap.WageIndex)
	pia := primaryInsuranceAmount(aime, snap.BendPoints)
	adjusted := pia * claimingFactor(p, strat)
	return decimal.NewFromFloat(adjusted).Round(2)
}

// averageIndexedMonthlyEarnings indexes each year's earnings to the wage
// level of the year the person turns 60, takes the top 35 years and divides
// by 420 months. Years at or after age 60 enter unindexed.
func averageIndexedMonthlyEarnings(p *domain.Person, wageIndex []domain.WageIndexEntry) float64 {
	index := make(map[int]float64, len(wageIndex))
	for _, e := range wageIndex {
		index[e.Year] = e.Index
	}
	age60Year := p.BirthDate.Year() + 60
	base, haveBase := index[age60Year]

	indexed := make([]float64, 0, len(p.EarningsHistory))
	for _, e := range p.EarningsHistory {
		amount := e.Amount
		if haveBase && e.Year < age60Year {
			if yearIdx, ok := index[e.Year]; ok && yearIdx > 0 {
				amount = e.Amount * base / yearIdx
			}
		}
		indexed = append(indexed, amount)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(indexed)))
	if len(indexed) > 35 {
		indexed = indexed[:35]
	}
	var sum float64
	for _, a := range indexed {
		sum += a
	}
	return sum / aimeMonths
}

// primaryInsuranceAmount applies the two bend points: 90% to the first,
// 32% to the second, 15% above.
func primaryInsuranceAmount(aime float64, bp *domain.BendPoints) float64 {
	pia := 0.9 * min64(aime, bp.First)
	if aime > bp.First {
		pia += 0.32 * (min64(aime, bp.Second) - bp.First)
	}
	if aime > bp.Second {
		pia += 0.15 * (aime - bp.Second)
	}
	return pia
}

// claimingFactor adjusts the PIA for claiming before or after full
// retirement age: 5/9 of a percent per month for the first 36 early months,
// 5/12 of a percent per month beyond, and 2/3 of a percent delayed credit
// per month up to age 70.
func claimingFactor(p *domain.Person, strat *domain.SocialSecurityStrategy) float64 {
	claimAgeMonths := p.AgeInMonthsAt(strat.ClaimDate)
	diff := claimAgeMonths - fullRetirementAgeMonths
	switch {
	case diff < 0:
		early := -diff
		first := early
		if first > 36 {
			first = 36
		}
		rest := early - first
		return 1 - float64(first)*(5.0/900) - float64(rest)*(5.0/1200)
	case diff > 0:
		delayed := diff
		if claimAgeMonths > 70*12 {
			delayed = 70*12 - fullRetirementAgeMonths
		}
		return 1 + float64(delayed)*(2.0/300)
	default:
		return 1
	}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
