package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// earlyWithdrawalPenaltyRate is the statutory 10% additional tax on
// penalized distributions.
const earlyWithdrawalPenaltyRate = 0.1

// TaxesModule runs only at year boundaries, after every income- and
// withdrawal-generating module has posted to the year ledger. It resolves
// the year's bracket tables, settles Social Security taxability, computes
// ordinary tax, capital-gains tax stacked on top of ordinary income, and
// early-withdrawal penalties, then nets the liability against cash. It is
// the only module allowed to liquidate holdings purely to pay tax.
type TaxesModule struct{}

func (m *TaxesModule) Name() string { return "taxes" }

func (m *TaxesModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	if !mc.YearEnd {
		return res, nil
	}
	if len(mc.Snapshot.People) == 0 {
		return res, nil
	}
	status := mc.Snapshot.People[0].FilingStatus

	policy, err := ResolveTaxPolicy(mc.Snapshot.TaxPolicies, mc.Date.Year(), status)
	if err != nil {
		// A silently wrong tax figure is worse than a failed run.
		return nil, err
	}

	taxableSS := decimal.Zero
	if yl.SocialSecurityBenefits.IsPositive() {
		bracket, err := ResolveSSBracket(mc.Snapshot.SSBrackets, mc.Date.Year(), status)
		if err != nil {
			return nil, err
		}
		taxableSS = TaxableSocialSecurity(
			yl.SocialSecurityBenefits,
			yl.OrdinaryIncome,
			yl.CapitalGains,
			yl.TaxExemptIncome,
			bracket,
		)
	}

	// Itemized deductions displace the standard deduction only when they
	// exceed it.
	deduction := decimal.Max(policy.StandardDeduction, yl.Deductions)
	taxableOrdinary := yl.OrdinaryIncome.Add(taxableSS).Sub(deduction)
	if taxableOrdinary.IsNegative() {
		taxableOrdinary = decimal.Zero
	}

	ordinaryTax := OrdinaryTax(taxableOrdinary, policy.Brackets)

	gains := yl.CapitalGains
	capGainsTax := decimal.Zero
	if gains.IsPositive() {
		capGainsTax = CapitalGainsTax(gains, taxableOrdinary, policy.CapitalGains)
	}

	penalties := yl.PenaltyBase.Mul(decimal.NewFromFloat(earlyWithdrawalPenaltyRate))
	total := ordinaryTax.Add(capGainsTax).Add(penalties).Round(2)

	res.input("taxableOrdinary", money(taxableOrdinary))
	res.input("taxableSocialSecurity", money(taxableSS))
	res.input("deduction", money(deduction))
	res.checkpoint("ordinaryTax", money(ordinaryTax))
	res.checkpoint("capitalGainsTax", money(capGainsTax))
	res.checkpoint("penalties", money(penalties))

	paid := led.WithdrawCashAcross(total)
	if paid.LessThan(total) {
		// Liquidate holdings to cover the remainder. The income these
		// sales realize belongs to the following year; the scheduler
		// folds this module's actions forward.
		paid = paid.Add(m.liquidateForTax(mc, led, res, total.Sub(paid)))
	}

	res.cashflow(domain.Cashflow{
		Label:    "Taxes",
		Category: domain.CategoryOther,
		Amount:   paid.Neg(),
	})
	if paid.LessThan(total) {
		res.checkpoint("unpaidTax", money(total.Sub(paid)))
	}

	yl.Penalties = penalties
	yl.TaxPaid = total
	return res, nil
}

func (m *TaxesModule) liquidateForTax(mc *Context, led *Ledger, res *ModuleResult, need decimal.Decimal) decimal.Decimal {
	target := primaryCashAccount(mc.Snapshot)
	if target == "" {
		return decimal.Zero
	}
	covered := decimal.Zero
	remaining := need
	for _, taxType := range defaultWithdrawalOrder {
		if !remaining.IsPositive() {
			break
		}
		for _, h := range led.HoldingStates() {
			if !remaining.IsPositive() {
				break
			}
			if h.TaxType != taxType || !h.Balance.IsPositive() {
				continue
			}
			owner := mc.Snapshot.PersonByID(h.PersonID)
			resolved, tax := led.WithdrawHolding(h.HoldingID, remaining, mc.AgeInMonthsOf(owner))
			if resolved.IsZero() {
				continue
			}
			led.DepositCash(target, resolved)
			res.action(domain.Action{
				Kind:     domain.ActionWithdraw,
				Nominal:  remaining,
				Resolved: resolved,
				SourceID: h.HoldingID,
				TargetID: target,
				Tax:      &tax,
			})
			got := led.WithdrawCash(target, resolved)
			covered = covered.Add(got)
			remaining = remaining.Sub(got)
		}
	}
	return covered
}
