package domain

import "time"

// Scenario is the stored planning document: everything the snapshot builder
// reads, plus display metadata. It is persisted as one aggregate.
type Scenario struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      Plan      `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Plan is the editable input side of a scenario. The snapshot builder
// freezes a Plan into a Snapshot for one run.
type Plan struct {
	Start time.Time `json:"start"`
	Years int       `json:"years"`

	People             []Person                 `json:"people"`
	CashAccounts       []CashAccount            `json:"cashAccounts"`
	InvestmentAccounts []InvestmentAccount      `json:"investmentAccounts"`
	Holdings           []Holding                `json:"holdings"`
	WorkStrategies     []WorkStrategy           `json:"workStrategies,omitempty"`
	SocialSecurity     []SocialSecurityStrategy `json:"socialSecurityStrategies,omitempty"`
	SpendingStrategies []SpendingStrategy       `json:"spendingStrategies,omitempty"`
	PensionStrategies  []PensionStrategy        `json:"pensionStrategies,omitempty"`
	Healthcare         []HealthcareStrategy     `json:"healthcareStrategies,omitempty"`
	Charitable         []CharitableStrategy     `json:"charitableStrategies,omitempty"`
	Events             []PlannedEvent           `json:"events,omitempty"`
	CashBuffer         *CashBufferStrategy      `json:"cashBufferStrategy,omitempty"`
	Rebalancing        []RebalancingStrategy    `json:"rebalancingStrategies,omitempty"`
	Conversions        []ConversionStrategy     `json:"conversionStrategies,omitempty"`
	Market             MarketStrategy           `json:"marketStrategy"`
	Bundles            []StrategyBundle         `json:"bundles"`

	// Policy tables override the embedded defaults when present; missing
	// tables fall back to the published ones. WageIndex has no embedded
	// default, so without one earnings are used unindexed.
	TaxPolicies   []TaxPolicy             `json:"taxPolicies,omitempty"`
	SSBrackets    []SocialSecurityBracket `json:"ssBrackets,omitempty"`
	WageIndex     []WageIndexEntry        `json:"wageIndex,omitempty"`
	BendPoints    *BendPoints             `json:"bendPoints,omitempty"`
	InflationRate float64                 `json:"inflationRate"`
	RMDStartAge   int                     `json:"rmdStartAge,omitempty"`
}
