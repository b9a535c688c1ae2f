package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// SpendingModule draws the month's line items from cash, needs before
// wants. A shortfall is not a failure: it is deferred to the cash-buffer
// module, which liquidates holdings to cover it later in the same month.
type SpendingModule struct{}

func (m *SpendingModule) Name() string { return "spending" }

func (m *SpendingModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	items := m.activeItems(mc)
	if len(items) == 0 {
		return res, nil
	}

	shortfall := decimal.Zero
	for _, pass := range []domain.SpendingPriority{domain.SpendingNeed, domain.SpendingWant} {
		for _, item := range items {
			if item.Priority != pass {
				continue
			}
			amount := item.MonthlyAmount
			if item.InflationAdjusted {
				amount = amount.Mul(mc.InflationFactor())
			}
			paid := led.WithdrawCashAcross(amount)
			res.cashflow(domain.Cashflow{
				Label:    item.Label,
				Category: domain.CategoryOther,
				Amount:   paid.Neg(),
			})
			if paid.LessThan(amount) {
				shortfall = shortfall.Add(amount.Sub(paid))
			}
		}
	}

	if shortfall.IsPositive() {
		mc.Shortfall = mc.Shortfall.Add(shortfall)
		res.checkpoint("deferredToCashBuffer", money(shortfall))
	}
	return res, nil
}

func (m *SpendingModule) activeItems(mc *Context) []domain.SpendingLineItem {
	var items []domain.SpendingLineItem
	seen := make(map[string]bool)
	for _, bundle := range mc.Snapshot.Bundles {
		if bundle.SpendingStrategyID == "" || seen[bundle.SpendingStrategyID] {
			continue
		}
		seen[bundle.SpendingStrategyID] = true
		strat := mc.Snapshot.SpendingStrategyByID(bundle.SpendingStrategyID)
		for _, item := range strat.LineItems {
			if item.Start != nil && mc.Date.Before(*item.Start) {
				continue
			}
			if item.End != nil && mc.Date.After(*item.End) {
				continue
			}
			items = append(items, item)
		}
	}
	return items
}
