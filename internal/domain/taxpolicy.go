package domain

import "github.com/shopspring/decimal"

// TaxBracket is one rung of a progressive rate table. UpTo is the bracket's
// upper threshold of taxable income; a nil UpTo marks the open-ended top
// bracket.
type TaxBracket struct {
	UpTo *decimal.Decimal `json:"upTo,omitempty"`
	Rate float64          `json:"rate"`
}

// TaxPolicy is one year's bracket tables for one filing status. Thresholds
// are nominal for the policy year; the resolver inflates them forward.
type TaxPolicy struct {
	Year              int             `json:"year"`
	FilingStatus      FilingStatus    `json:"filingStatus"`
	Brackets          []TaxBracket    `json:"brackets"`
	CapitalGains      []TaxBracket    `json:"capitalGains"`
	StandardDeduction decimal.Decimal `json:"standardDeduction"`
	// InflationRate scales thresholds for years after Year.
	InflationRate float64 `json:"inflationRate"`
}

// SocialSecurityBracket holds the provisional-income thresholds and tier
// rates for one year and filing status.
type SocialSecurityBracket struct {
	Year           int             `json:"year"`
	FilingStatus   FilingStatus    `json:"filingStatus"`
	LowerThreshold decimal.Decimal `json:"lowerThreshold"`
	UpperThreshold decimal.Decimal `json:"upperThreshold"`
	Tier1Rate      float64         `json:"tier1Rate"`
	Tier2Rate      float64         `json:"tier2Rate"`
}

// WageIndexEntry is one year of the SSA average wage index.
type WageIndexEntry struct {
	Year  int     `json:"year"`
	Index float64 `json:"index"`
}

// BendPoints are the monthly PIA formula breakpoints for benefit
// computation, nominal for Year.
type BendPoints struct {
	Year   int     `json:"year"`
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}
