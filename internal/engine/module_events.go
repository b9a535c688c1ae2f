package engine

import (
	"github.com/retiresim/retirecast/internal/domain"
)

// EventsModule applies one-off cash events scheduled for this month.
// Outflows larger than available cash are clamped and the shortfall is
// deferred to the cash buffer, never a failure.
type EventsModule struct{}

func (m *EventsModule) Name() string { return "events" }

func (m *EventsModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	target := primaryCashAccount(mc.Snapshot)
	for _, ev := range mc.Snapshot.Events {
		if ev.Date.Year() != mc.Date.Year() || ev.Date.Month() != mc.Date.Month() {
			continue
		}
		if ev.Amount.IsPositive() {
			if target == "" {
				continue
			}
			led.DepositCash(target, ev.Amount)
			cf := domain.Cashflow{
				Label:    ev.Label,
				Category: domain.CategoryEvent,
				Amount:   ev.Amount,
			}
			if ev.Taxable {
				cf.OrdinaryIncome = ev.Amount
			}
			res.cashflow(cf)
			continue
		}

		want := ev.Amount.Neg()
		paid := led.WithdrawCashAcross(want)
		res.cashflow(domain.Cashflow{
			Label:    ev.Label,
			Category: domain.CategoryEvent,
			Amount:   paid.Neg(),
		})
		if paid.LessThan(want) {
			shortfall := want.Sub(paid)
			mc.Shortfall = mc.Shortfall.Add(shortfall)
			res.checkpoint("deferredToCashBuffer", money(shortfall))
		}
	}
	return res, nil
}
