package engine

import (
	"github.com/retiresim/retirecast/internal/domain"
)

// HealthcareModule pays premiums and recurring medical costs, inflating on
// each strategy's own rate rather than general inflation.
type HealthcareModule struct{}

func (m *HealthcareModule) Name() string { return "healthcare" }

func (m *HealthcareModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	for _, hc := range mc.Snapshot.Healthcare {
		if mc.Date.Before(hc.Start) {
			continue
		}
		if hc.End != nil && mc.Date.After(*hc.End) {
			continue
		}
		premium := hc.MonthlyPremium.Mul(compound(hc.InflationRate, mc.Date.Year()-hc.Start.Year()))
		paid := led.WithdrawCashAcross(premium)
		res.cashflow(domain.Cashflow{
			Label:    hc.Label,
			Category: domain.CategoryOther,
			Amount:   paid.Neg(),
		})
		if paid.LessThan(premium) {
			shortfall := premium.Sub(paid)
			mc.Shortfall = mc.Shortfall.Add(shortfall)
			res.checkpoint("deferredToCashBuffer", money(shortfall))
		}
	}
	return res, nil
}
