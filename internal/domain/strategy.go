package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkStrategy models future earned income for one person.
type WorkStrategy struct {
	ID       string       `json:"id"`
	PersonID string       `json:"personId"`
	Periods  []WorkPeriod `json:"periods"`
}

// WorkPeriod is a span of months with a level salary and payroll-style
// retirement contributions. Contributions land in the named holdings; the
// remainder of the salary lands in the strategy's cash account.
type WorkPeriod struct {
	Start                time.Time       `json:"start"`
	End                  time.Time       `json:"end"`
	MonthlySalary        decimal.Decimal `json:"monthlySalary"`
	TraditionalMonthly   decimal.Decimal `json:"traditionalMonthly"`
	TraditionalHoldingID string          `json:"traditionalHoldingId,omitempty"`
	RothMonthly          decimal.Decimal `json:"rothMonthly"`
	RothHoldingID        string          `json:"rothHoldingId,omitempty"`
	AnnualRaise          float64         `json:"annualRaise"`
	DepositCashAccountID string          `json:"depositCashAccountId"`
}

// SocialSecurityStrategy elects when a person claims benefits.
type SocialSecurityStrategy struct {
	ID       string `json:"id"`
	PersonID string `json:"personId"`
	// ClaimDate is normalized to the first of the month the first
	// benefit check arrives.
	ClaimDate time.Time `json:"claimDate"`
	// MonthlyBenefitOverride skips the earnings-history derivation when
	// the person already knows their statement amount.
	MonthlyBenefitOverride *decimal.Decimal `json:"monthlyBenefitOverride,omitempty"`
	// COLARate is the annual cost-of-living adjustment applied each
	// January after claiming.
	COLARate float64 `json:"colaRate"`
}

// SpendingPriority splits spending into amounts the plan must cover and
// amounts it covers when funds allow.
type SpendingPriority string

const (
	SpendingNeed SpendingPriority = "need"
	SpendingWant SpendingPriority = "want"
)

// SpendingStrategy is a set of recurring spending line items.
type SpendingStrategy struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	LineItems []SpendingLineItem `json:"lineItems"`
}

// SpendingLineItem is one recurring monthly outflow.
type SpendingLineItem struct {
	ID                 string           `json:"id"`
	SpendingStrategyID string           `json:"spendingStrategyId"`
	Label              string           `json:"label"`
	Priority           SpendingPriority `json:"priority"`
	MonthlyAmount      decimal.Decimal  `json:"monthlyAmount"`
	InflationAdjusted  bool             `json:"inflationAdjusted"`
	Start              *time.Time       `json:"start,omitempty"`
	End                *time.Time       `json:"end,omitempty"`
}

// PensionStrategy is a defined-benefit income stream.
type PensionStrategy struct {
	ID             string          `json:"id"`
	PersonID       string          `json:"personId"`
	Name           string          `json:"name"`
	MonthlyBenefit decimal.Decimal `json:"monthlyBenefit"`
	Start          time.Time       `json:"start"`
	COLARate       float64         `json:"colaRate"`
	// Taxable is false for the rare pension paid from after-tax money.
	Taxable bool `json:"taxable"`
}

// HealthcareStrategy models premiums and recurring medical costs, which
// inflate on their own schedule.
type HealthcareStrategy struct {
	ID             string          `json:"id"`
	PersonID       string          `json:"personId"`
	Label          string          `json:"label"`
	MonthlyPremium decimal.Decimal `json:"monthlyPremium"`
	Start          time.Time       `json:"start"`
	End            *time.Time      `json:"end,omitempty"`
	InflationRate  float64         `json:"inflationRate"`
}

// CharitableStrategy is an annual gift. When SourceHoldingID names a
// traditional holding the gift is treated as a qualified charitable
// distribution: it leaves the holding without creating ordinary income.
// Otherwise it is a cash gift recorded as a deduction.
type CharitableStrategy struct {
	ID              string          `json:"id"`
	PersonID        string          `json:"personId"`
	Label           string          `json:"label"`
	AnnualGift      decimal.Decimal `json:"annualGift"`
	GiftMonth       time.Month      `json:"giftMonth"`
	SourceHoldingID string          `json:"sourceHoldingId,omitempty"`
}

// PlannedEvent is a one-off cash event: an inheritance, a roof, a car.
// Positive amounts are inflows.
type PlannedEvent struct {
	ID     string          `json:"id"`
	Label  string          `json:"label"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	// Taxable marks inflows that count as ordinary income.
	Taxable bool `json:"taxable"`
}

// CashBufferStrategy keeps total cash inside a target band.
type CashBufferStrategy struct {
	ID      string          `json:"id"`
	Floor   decimal.Decimal `json:"floor"`
	Target  decimal.Decimal `json:"target"`
	Ceiling decimal.Decimal `json:"ceiling"`
	// WithdrawalOrder lists tax types to liquidate from, first match
	// wins. Empty means traditional, then roth, then taxable.
	WithdrawalOrder []TaxType `json:"withdrawalOrder,omitempty"`
	// SweepHoldingID receives cash above the ceiling.
	SweepHoldingID string `json:"sweepHoldingId,omitempty"`
	// PrimaryCashAccountID is where refills land and sweeps draw from.
	PrimaryCashAccountID string `json:"primaryCashAccountId"`
}

// AllocationTarget is one leg of a rebalancing target.
type AllocationTarget struct {
	HoldingID string  `json:"holdingId"`
	Weight    float64 `json:"weight"`
}

// RebalancingStrategy restores target weights within a tax-type bucket.
type RebalancingStrategy struct {
	ID      string             `json:"id"`
	TaxType TaxType            `json:"taxType"`
	Targets []AllocationTarget `json:"targets"`
	// DriftBand is the no-trade band: a leg within this absolute weight
	// distance of target is left alone.
	DriftBand       float64 `json:"driftBand"`
	FrequencyMonths int     `json:"frequencyMonths"`
}

// ConversionStrategy moves traditional money to Roth each year.
type ConversionStrategy struct {
	ID              string          `json:"id"`
	PersonID        string          `json:"personId"`
	FromHoldingID   string          `json:"fromHoldingId"`
	ToHoldingID     string          `json:"toHoldingId"`
	AnnualAmount    decimal.Decimal `json:"annualAmount"`
	// FillToBracketRate, when set, sizes the conversion to fill ordinary
	// income up to the top of the bracket with this rate, overriding
	// AnnualAmount.
	FillToBracketRate *float64   `json:"fillToBracketRate,omitempty"`
	ConversionMonth   time.Month `json:"conversionMonth"`
}

// MarketStrategy configures the return model.
type MarketStrategy struct {
	ID string `json:"id"`
	// Kind is "fixed" or "random".
	Kind string `json:"kind"`
	// DefaultAnnualReturn applies to holdings without an override.
	DefaultAnnualReturn float64 `json:"defaultAnnualReturn"`
	// Mean and StdDev parameterize the annual return distribution when
	// Kind is "random"; Seed makes the sampling reproducible.
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Seed   int64   `json:"seed"`
}

const (
	MarketFixed  = "fixed"
	MarketRandom = "random"
)

// StrategyBundle ties a person to one election of each strategy kind.
type StrategyBundle struct {
	ID                       string   `json:"id"`
	PersonID                 string   `json:"personId"`
	WorkStrategyID           string   `json:"workStrategyId,omitempty"`
	SocialSecurityStrategyID string   `json:"socialSecurityStrategyId,omitempty"`
	SpendingStrategyID       string   `json:"spendingStrategyId,omitempty"`
	PensionStrategyIDs       []string `json:"pensionStrategyIds,omitempty"`
	HealthcareStrategyIDs    []string `json:"healthcareStrategyIds,omitempty"`
	CharitableStrategyIDs    []string `json:"charitableStrategyIds,omitempty"`
	ConversionStrategyID     string   `json:"conversionStrategyId,omitempty"`
}
