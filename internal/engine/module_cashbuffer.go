package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// CashBufferModule keeps total cash inside the configured band. It runs
// after every income and spending module has landed its cash effects: it
// first liquidates holdings (in the configured tax-type order) to cover any
// deferred spending shortfall and refill cash to target, then pays the
// shortfall, then sweeps cash above the ceiling into the sweep holding. A
// shortfall no liquidation can cover becomes an unmet-spending record, not
// an error.
type CashBufferModule struct{}

func (m *CashBufferModule) Name() string { return "cash-buffer" }

var defaultWithdrawalOrder = []domain.TaxType{domain.TaxTraditional, domain.TaxRoth, domain.TaxTaxable}

func (m *CashBufferModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	strat := mc.Snapshot.CashBuffer
	if strat == nil {
		// No buffer configured: still settle deferred spending from
		// whatever cash arrived after the spending module ran.
		m.settleShortfall(mc, led, res)
		return res, nil
	}

	res.input("cash", money(led.TotalCash()))
	res.input("shortfall", money(mc.Shortfall))

	// Refill when below the floor or when spending was deferred.
	need := decimal.Zero
	if led.TotalCash().LessThan(strat.Floor) {
		need = strat.Target.Sub(led.TotalCash())
	}
	need = need.Add(mc.Shortfall)

	if need.IsPositive() {
		m.liquidate(mc, led, yl, res, strat, need)
	}

	m.settleShortfall(mc, led, res)

	// Sweep excess above the ceiling into the sweep holding.
	if strat.SweepHoldingID != "" && strat.Ceiling.IsPositive() && led.TotalCash().GreaterThan(strat.Ceiling) {
		excess := led.TotalCash().Sub(strat.Target)
		taken := led.WithdrawCashAcross(excess)
		led.DepositHolding(strat.SweepHoldingID, taken, mc.Index)
		res.action(domain.Action{
			Kind:     domain.ActionDeposit,
			Nominal:  excess,
			Resolved: taken,
			SourceID: strat.PrimaryCashAccountID,
			TargetID: strat.SweepHoldingID,
		})
		res.checkpoint("swept", money(taken))
	}
	return res, nil
}

func (m *CashBufferModule) liquidate(mc *Context, led *Ledger, yl *YearLedger, res *ModuleResult, strat *domain.CashBufferStrategy, need decimal.Decimal) {
	order := strat.WithdrawalOrder
	if len(order) == 0 {
		order = defaultWithdrawalOrder
	}
	remaining := need
	for _, taxType := range order {
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
			led.DepositCash(strat.PrimaryCashAccountID, resolved)
			res.action(domain.Action{
				Kind:     domain.ActionWithdraw,
				Nominal:  remaining,
				Resolved: resolved,
				SourceID: h.HoldingID,
				TargetID: strat.PrimaryCashAccountID,
				Tax:      &tax,
			})
			remaining = remaining.Sub(resolved)
		}
	}
	if remaining.IsPositive() {
		res.checkpoint("unfundedRefill", money(remaining))
	}
}

// settleShortfall pays spending that earlier modules deferred, out of
// whatever cash is now available. Whatever still cannot be paid is recorded
// as unmet spending.
func (m *CashBufferModule) settleShortfall(mc *Context, led *Ledger, res *ModuleResult) {
	if !mc.Shortfall.IsPositive() {
		return
	}
	paid := led.WithdrawCashAcross(mc.Shortfall)
	if paid.IsPositive() {
		res.cashflow(domain.Cashflow{
			Label:    "Deferred spending",
			Category: domain.CategoryOther,
			Amount:   paid.Neg(),
		})
	}
	unmet := mc.Shortfall.Sub(paid)
	mc.Shortfall = decimal.Zero
	if unmet.IsPositive() {
		res.checkpoint("unmetSpending", money(unmet))
	}
}
