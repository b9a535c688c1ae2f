package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// RebalancingModule restores target weights inside each strategy's tax-type
// bucket on its schedule, skipping legs whose drift is inside the no-trade
// band. Sales inside a taxable bucket realize gains; inside tax-advantaged
// buckets trades are non-events.
type RebalancingModule struct{}

func (m *RebalancingModule) Name() string { return "rebalancing" }

func (m *RebalancingModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	for _, strat := range mc.Snapshot.Rebalancing {
		freq := strat.FrequencyMonths
		if freq <= 0 {
			freq = 12
		}
		if mc.Index == 0 || mc.Index%freq != 0 {
			continue
		}
		m.rebalance(mc, led, res, &strat)
	}
	return res, nil
}

func (m *RebalancingModule) rebalance(mc *Context, led *Ledger, res *ModuleResult, strat *domain.RebalancingStrategy) {
	total := decimal.Zero
	for _, t := range strat.Targets {
		total = total.Add(led.Holding(t.HoldingID).Balance)
	}
	if !total.IsPositive() {
		return
	}
	res.input("bucketValue", money(total))

	band := decimal.NewFromFloat(strat.DriftBand)

	// Overweight legs sell down to target, underweight legs buy up, both
	// only when drift exceeds the band. Sells and buys are matched in
	// order; totals are equal by construction up to clamping.
	type trade struct {
		holdingID string
		amount    decimal.Decimal
	}
	var sells, buys []trade
	for _, t := range strat.Targets {
		h := led.Holding(t.HoldingID)
		desired := total.Mul(decimal.NewFromFloat(t.Weight))
		drift := h.Balance.Sub(desired)
		if drift.Abs().LessThan(total.Mul(band)) {
			continue
		}
		if drift.IsPositive() {
			sells = append(sells, trade{t.HoldingID, drift})
		} else {
			buys = append(buys, trade{t.HoldingID, drift.Neg()})
		}
	}

	si, bi := 0, 0
	for si < len(sells) && bi < len(buys) {
		amount := decimal.Min(sells[si].amount, buys[bi].amount)
		resolved, tax := led.Rebalance(sells[si].holdingID, buys[bi].holdingID, amount)
		if resolved.IsPositive() {
			res.action(domain.Action{
				Kind:     domain.ActionWithdraw,
				Nominal:  amount,
				Resolved: resolved,
				SourceID: sells[si].holdingID,
				TargetID: buys[bi].holdingID,
				Tax:      &tax,
			})
			res.action(domain.Action{
				Kind:     domain.ActionDeposit,
				Nominal:  amount,
				Resolved: resolved,
				SourceID: sells[si].holdingID,
				TargetID: buys[bi].holdingID,
			})
		}
		sells[si].amount = sells[si].amount.Sub(amount)
		buys[bi].amount = buys[bi].amount.Sub(amount)
		if !sells[si].amount.IsPositive() {
			si++
		}
		if !buys[bi].amount.IsPositive() {
			bi++
		}
	}
}
