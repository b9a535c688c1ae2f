package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// CharitableModule makes the annual gift in its scheduled month. A gift
// sourced from a traditional holding is a qualified charitable
// distribution: it leaves the holding with no ordinary income, no penalty,
// and still counts toward the owner's RMD. A cash gift is an itemizable
// deduction.
type CharitableModule struct{}

func (m *CharitableModule) Name() string { return "charitable" }

func (m *CharitableModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	for _, bundle := range mc.Snapshot.Bundles {
		for _, cid := range bundle.CharitableStrategyIDs {
			strat := charitableByID(mc.Snapshot, cid)
			if strat == nil || mc.Date.Month() != strat.GiftMonth || !strat.AnnualGift.IsPositive() {
				continue
			}

			if strat.SourceHoldingID != "" {
				resolved := led.WithdrawHoldingUntaxed(strat.SourceHoldingID, strat.AnnualGift)
				// The zeroed tax record still lets the scheduler
				// credit the distribution toward the owner's RMD.
				res.action(domain.Action{
					Kind:     domain.ActionWithdraw,
					Nominal:  strat.AnnualGift,
					Resolved: resolved,
					SourceID: strat.SourceHoldingID,
					Tax:      &domain.ActionTax{},
				})
				// The gift leaves the household without passing
				// through cash.
				res.cashflow(domain.Cashflow{
					Label:    strat.Label,
					Category: domain.CategoryOther,
					Amount:   decimal.Zero,
				})
				res.checkpoint("qualifiedCharitableDistribution", money(resolved))
				continue
			}

			paid := led.WithdrawCashAcross(strat.AnnualGift)
			res.cashflow(domain.Cashflow{
				Label:     strat.Label,
				Category:  domain.CategoryOther,
				Amount:    paid.Neg(),
				Deduction: paid,
			})
			if paid.LessThan(strat.AnnualGift) {
				res.checkpoint("unfundedGift", money(strat.AnnualGift.Sub(paid)))
			}
		}
	}
	return res, nil
}

func charitableByID(snap *domain.Snapshot, id string) *domain.CharitableStrategy {
	for i := range snap.Charitable {
		if snap.Charitable[i].ID == id {
			return &snap.Charitable[i]
		}
	}
	return nil
}
