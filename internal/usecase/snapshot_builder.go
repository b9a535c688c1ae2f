package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/engine/tables"
)

const defaultRMDStartAge = 73

// BuildSnapshot freezes a scenario's plan into the read-only input of one
// run. Plan slices are deep-copied so later scenario edits cannot reach a
// stored run, and missing policy tables fall back to the embedded defaults.
func BuildSnapshot(scenario *domain.Scenario) (*domain.Snapshot, error) {
	plan, err := clonePlan(&scenario.Plan)
	if err != nil {
		return nil, fmt.Errorf("freeze plan for scenario %s: %w", scenario.ID, err)
	}

	snap := &domain.Snapshot{
		ScenarioID:         scenario.ID,
		Start:              plan.Start,
		Years:              plan.Years,
		People:             plan.People,
		CashAccounts:       plan.CashAccounts,
		InvestmentAccounts: plan.InvestmentAccounts,
		Holdings:           plan.Holdings,
		WorkStrategies:     plan.WorkStrategies,
		SocialSecurity:     plan.SocialSecurity,
		SpendingStrategies: plan.SpendingStrategies,
		PensionStrategies:  plan.PensionStrategies,
		Healthcare:         plan.Healthcare,
		Charitable:         plan.Charitable,
		Events:             plan.Events,
		CashBuffer:         plan.CashBuffer,
		Rebalancing:        plan.Rebalancing,
		Conversions:        plan.Conversions,
		Market:             plan.Market,
		Bundles:            plan.Bundles,
		TaxPolicies:        plan.TaxPolicies,
		SSBrackets:         plan.SSBrackets,
		WageIndex:          plan.WageIndex,
		BendPoints:         plan.BendPoints,
		InflationRate:      plan.InflationRate,
		RMDStartAge:        plan.RMDStartAge,
	}

	if len(snap.TaxPolicies) == 0 {
		policies, err := tables.DefaultTaxPolicies()
		if err != nil {
			return nil, fmt.Errorf("load default tax policies: %w", err)
		}
		snap.TaxPolicies = policies
	}
	if len(snap.SSBrackets) == 0 {
		brackets, err := tables.DefaultSSBrackets()
		if err != nil {
			return nil, fmt.Errorf("load default social security brackets: %w", err)
		}
		snap.SSBrackets = brackets
	}
	if snap.BendPoints == nil {
		bp, err := tables.DefaultBendPoints()
		if err != nil {
			return nil, fmt.Errorf("load default bend points: %w", err)
		}
		snap.BendPoints = bp
	}
	if snap.RMDStartAge == 0 {
		snap.RMDStartAge = defaultRMDStartAge
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// clonePlan deep-copies a plan through its JSON form. Every plan field is
// JSON-serializable already since scenarios persist as JSONB documents.
func clonePlan(plan *domain.Plan) (*domain.Plan, error) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}
	var out domain.Plan
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
