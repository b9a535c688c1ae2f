package domain

import "github.com/shopspring/decimal"

// TaxType classifies a holding's tax treatment.
type TaxType string

const (
	TaxTraditional TaxType = "traditional"
	TaxRoth        TaxType = "roth"
	TaxTaxable     TaxType = "taxable"
)

// AccountKind tags a balance reference as a cash account or a holding.
// Reporting code switches on this tag, so the set is closed.
type AccountKind string

const (
	KindCash    AccountKind = "cash"
	KindHolding AccountKind = "holding"
)

// CashAccount is a non-investment account: checking, savings, money market.
type CashAccount struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	// AnnualYield is the interest rate applied monthly by the
	// market-returns module. Zero for non-interest-bearing accounts.
	AnnualYield float64 `json:"annualYield"`
}

// InvestmentAccount groups holdings under one owner and tax type.
type InvestmentAccount struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PersonID string  `json:"personId"`
	TaxType  TaxType `json:"taxType"`
}

// Holding is one position inside an investment account. Balance carries the
// market value; CostBasis the portion not yet recognized as gain. For Roth
// holdings the basis is further split by seasoning.
type Holding struct {
	ID                  string          `json:"id"`
	InvestmentAccountID string          `json:"investmentAccountId"`
	Name                string          `json:"name"`
	Balance             decimal.Decimal `json:"balance"`
	CostBasis           decimal.Decimal `json:"costBasis"`
	// SeasonedBasis and UnseasonedBasis apply to Roth holdings only:
	// contributions older than the five-year clock are seasoned and
	// withdraw penalty-free regardless of age.
	SeasonedBasis   decimal.Decimal `json:"seasonedBasis"`
	UnseasonedBasis decimal.Decimal `json:"unseasonedBasis"`
	// AnnualReturn optionally overrides the scenario's default market
	// return for this holding. Nil means use the default.
	AnnualReturn *float64 `json:"annualReturn,omitempty"`
}
