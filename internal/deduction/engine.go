package deduction

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Result is the claim outcome for one invoice, persisted alongside the
// extracted fields in the processing cache.
type Result struct {
	Category              string  `json:"Category"`
	TotalAmount           float64 `json:"TotalAmount"`
	WorkUsePercentage     float64 `json:"WorkUsePercentage"`
	DeductibleAmount      float64 `json:"DeductibleAmount"`
	ClaimMethod           string  `json:"ClaimMethod"`
	ClaimNotes            string  `json:"ClaimNotes"`
	AtoReference          string  `json:"AtoReference,omitempty"`
	RequiresDocumentation string  `json:"RequiresDocumentation,omitempty"`
}

// Engine computes deductible amounts from a rule table. The branch
// structure depends only on rule shape, never on category names, so a
// custom table behaves the same as the built-in one.
type Engine struct {
	table *RuleTable
	log   *slog.Logger
}

func NewEngine(table *RuleTable, log *slog.Logger) *Engine {
	if table == nil {
		table = DefaultATORules()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{table: table, log: log}
}

// Calculate applies the category's rule to the invoice total. Unknown
// categories are flagged for manual review rather than guessed at.
func (e *Engine) Calculate(total float64, category string, workUsePct float64) Result {
	res := Result{
		Category:          category,
		TotalAmount:       round2(decimal.NewFromFloat(total)),
		WorkUsePercentage: workUsePct,
	}

	rule, ok := e.table.Categories[category]
	if !ok {
		res.DeductibleAmount = 0.0
		res.ClaimMethod = "Manual Review Required"
		res.ClaimNotes = fmt.Sprintf("No claim rule for category %q; review manually.", category)
		e.log.Warn("deduction.manual_review", "category", category, "total", total)
		return res
	}

	res.ClaimNotes = rule.ClaimNotes
	res.AtoReference = rule.AtoReference
	res.RequiresDocumentation = rule.RequiredDocumentation

	amount := decimal.NewFromFloat(total)
	pct := decimal.NewFromFloat(workUsePct).Div(decimal.NewFromInt(100))

	if !rule.WorkUseApplicable {
		res.WorkUsePercentage = 100
		res.DeductibleAmount = round2(amount)
		res.ClaimMethod = rule.ClaimMethod
		if res.ClaimMethod == "" {
			res.ClaimMethod = "Fully deductible"
		}
		return res
	}

	workPortion := amount.Mul(pct)

	if rule.Threshold != nil {
		threshold := decimal.NewFromFloat(*rule.Threshold)
		if amount.LessThanOrEqual(threshold) {
			res.DeductibleAmount = round2(workPortion)
			res.ClaimMethod = fmt.Sprintf("Immediate Deduction (Under $%s)", threshold.StringFixed(0))
			return res
		}
		years := DefaultDepreciationYears
		if rule.DepreciationYears != nil {
			years = *rule.DepreciationYears
		}
		res.DeductibleAmount = round2(workPortion.Div(decimal.NewFromFloat(years)))
		res.ClaimMethod = fmt.Sprintf("Decline in Value (Over $%s - Depreciation)", threshold.StringFixed(0))
		return res
	}

	res.DeductibleAmount = round2(workPortion)
	res.ClaimMethod = rule.ClaimMethod
	if res.ClaimMethod == "" {
		res.ClaimMethod = "Work-use portion"
	}
	return res
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
