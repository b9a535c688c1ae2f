package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus is the lifecycle state of a simulation run. A run is created
// pending and transitions exactly once to success or error.
type RunStatus string

const (
	RunPending RunStatus = "pending"
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// CashflowCategory labels a cashflow for reporting. Closed set.
type CashflowCategory string

const (
	CategoryWork           CashflowCategory = "work"
	CategoryPension        CashflowCategory = "pension"
	CategorySocialSecurity CashflowCategory = "social_security"
	CategoryEvent          CashflowCategory = "event"
	CategoryOther          CashflowCategory = "other"
)

// ActionKind labels an account action. Closed set.
type ActionKind string

const (
	ActionDeposit  ActionKind = "deposit"
	ActionWithdraw ActionKind = "withdraw"
	ActionConvert  ActionKind = "convert"
)

// Cashflow is money crossing the household boundary in one month. Amount is
// the cash delta; the tax-character components are independent of it (a Roth
// withdrawal moves cash with zero ordinary income).
type Cashflow struct {
	Label          string           `json:"label"`
	Category       CashflowCategory `json:"category"`
	Amount         decimal.Decimal  `json:"amount"`
	OrdinaryIncome decimal.Decimal  `json:"ordinaryIncome"`
	CapitalGains   decimal.Decimal  `json:"capitalGains"`
	Deduction      decimal.Decimal  `json:"deduction"`
	TaxExempt      decimal.Decimal  `json:"taxExempt"`
}

// ActionTax is the tax character realized by an action, resolved by the
// ledger when the action executes.
type ActionTax struct {
	OrdinaryIncome decimal.Decimal `json:"ordinaryIncome"`
	CapitalGains   decimal.Decimal `json:"capitalGains"`
	TaxExempt      decimal.Decimal `json:"taxExempt"`
	// PenaltyBase is the portion subject to the early-withdrawal penalty.
	PenaltyBase decimal.Decimal `json:"penaltyBase"`
}

// Action is a movement between ledger accounts. Nominal is what the module
// asked for; Resolved is what the ledger could satisfy after clamping
// against the available balance.
type Action struct {
	Kind     ActionKind      `json:"kind"`
	Nominal  decimal.Decimal `json:"nominal"`
	Resolved decimal.Decimal `json:"resolved"`
	SourceID string          `json:"sourceId,omitempty"`
	TargetID string          `json:"targetId,omitempty"`
	Tax      *ActionTax      `json:"tax,omitempty"`
}

// MarketReturn records one month of growth on one balance.
type MarketReturn struct {
	AccountID string          `json:"accountId"`
	Kind      AccountKind     `json:"kind"`
	Before    decimal.Decimal `json:"before"`
	After     decimal.Decimal `json:"after"`
	Change    decimal.Decimal `json:"change"`
	Rate      float64         `json:"rate"`
}

// NamedValue is a labeled input or checkpoint inside a module explanation.
type NamedValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ModuleExplanation is one module's transcript for one month.
type ModuleExplanation struct {
	Module        string         `json:"module"`
	Inputs        []NamedValue   `json:"inputs,omitempty"`
	Checkpoints   []NamedValue   `json:"checkpoints,omitempty"`
	Cashflows     []Cashflow     `json:"cashflows,omitempty"`
	Actions       []Action       `json:"actions,omitempty"`
	MarketReturns []MarketReturn `json:"marketReturns,omitempty"`
}

// AccountBalance is one line of the month-end balance snapshot.
type AccountBalance struct {
	ID      string          `json:"id"`
	Kind    AccountKind     `json:"kind"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// MonthExplanation is the full transcript of one simulated month.
type MonthExplanation struct {
	MonthIndex    int                         `json:"monthIndex"`
	Date          time.Time                   `json:"date"`
	Modules       []ModuleExplanation         `json:"modules"`
	Balances      []AccountBalance            `json:"balances"`
	Contributions map[TaxType]decimal.Decimal `json:"contributions"`
}

// YearLedgerTotals is the closed-out annual accumulator, folded into the
// year's timeline point by the taxes module.
type YearLedgerTotals struct {
	OrdinaryIncome         decimal.Decimal `json:"ordinaryIncome"`
	CapitalGains           decimal.Decimal `json:"capitalGains"`
	Deductions             decimal.Decimal `json:"deductions"`
	TaxExemptIncome        decimal.Decimal `json:"taxExemptIncome"`
	SocialSecurityBenefits decimal.Decimal `json:"socialSecurityBenefits"`
	EarnedIncome           decimal.Decimal `json:"earnedIncome"`
	Penalties              decimal.Decimal `json:"penalties"`
	TaxPaid                decimal.Decimal `json:"taxPaid"`
}

// TimelinePoint is one year of the projection.
type TimelinePoint struct {
	Age          int              `json:"age"`
	Date         time.Time        `json:"date"`
	Balance      decimal.Decimal  `json:"balance"`
	Contribution decimal.Decimal  `json:"contribution"`
	Spending     decimal.Decimal  `json:"spending"`
	YearLedger   YearLedgerTotals `json:"yearLedger"`
}

// MonthlyTimelinePoint is one month of the projection.
type MonthlyTimelinePoint struct {
	Age           int             `json:"age"`
	Date          time.Time       `json:"date"`
	TotalBalance  decimal.Decimal `json:"totalBalance"`
	Contributions decimal.Decimal `json:"contributions"`
	Spending      decimal.Decimal `json:"spending"`
}

// Result is the engine's output, consumed field-for-field by reporting.
type Result struct {
	Timeline        []TimelinePoint        `json:"timeline"`
	MonthlyTimeline []MonthlyTimelinePoint `json:"monthlyTimeline"`
	Explanations    []MonthExplanation     `json:"explanations"`
}

// SimulationRun is one execution of the engine over a frozen snapshot.
// After finishing it is persisted read-only; later edits touch only Title.
type SimulationRun struct {
	ID         string     `json:"id"`
	ScenarioID string     `json:"scenarioId"`
	Title      string     `json:"title,omitempty"`
	Status     RunStatus  `json:"status"`
	Error      string     `json:"error,omitempty"`
	Snapshot   *Snapshot  `json:"snapshot,omitempty"`
	Result     *Result    `json:"result,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
