package deduction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateUnknownCategoryNeedsManualReview(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(150.0, "Llama Grooming", 60)

	assert.Equal(t, 0.0, res.DeductibleAmount)
	assert.Equal(t, "Manual Review Required", res.ClaimMethod)
	assert.Equal(t, 150.0, res.TotalAmount)
}

func TestCalculateFullyDeductible(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(500.0, "Professional Development", 60)

	assert.Equal(t, 500.0, res.DeductibleAmount, "work-use split never applies")
	assert.Equal(t, 100.0, res.WorkUsePercentage)
}

func TestCalculateImmediateDeductionUnderThreshold(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(250.0, "Computer Equipment", 60)

	assert.Equal(t, 150.0, res.DeductibleAmount) // 250 * 60%
	assert.Equal(t, "Immediate Deduction (Under $300)", res.ClaimMethod)
}

func TestCalculateExactlyAtThreshold(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(300.0, "Computer Equipment", 60)

	assert.Equal(t, 180.0, res.DeductibleAmount, "at the threshold still counts as under")
	assert.Equal(t, "Immediate Deduction (Under $300)", res.ClaimMethod)
}

func TestCalculateDepreciationOverThreshold(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(900.0, "Computer Equipment", 60)

	// 900 * 60% / 3 years
	assert.Equal(t, 180.0, res.DeductibleAmount)
	assert.Equal(t, "Decline in Value (Over $300 - Depreciation)", res.ClaimMethod)
}

func TestCalculateDefaultDepreciationYears(t *testing.T) {
	table := &RuleTable{
		StrategyName: "test",
		Categories: map[string]Rule{
			"Gadgets": {WorkUseApplicable: true, Threshold: ptr(300)},
		},
	}
	e := NewEngine(table, nil)
	res := e.Calculate(900.0, "Gadgets", 100)

	assert.Equal(t, 300.0, res.DeductibleAmount, "missing depreciation_years falls back to 3")
}

func TestCalculateWorkUsePortion(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(120.0, "Internet", 60)

	assert.Equal(t, 72.0, res.DeductibleAmount)
	assert.Equal(t, 60.0, res.WorkUsePercentage)
}

func TestCalculateRoundsToCents(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(99.99, "Internet", 33)

	// 99.99 * 0.33 = 32.9967 -> 33.00
	assert.Equal(t, 33.0, res.DeductibleAmount)
}

func TestCalculateCarriesRuleMetadata(t *testing.T) {
	e := NewEngine(nil, nil)
	res := e.Calculate(89.0, "Phone & Mobile", 60)

	assert.NotEmpty(t, res.ClaimNotes)
	assert.NotEmpty(t, res.AtoReference)
	assert.NotEmpty(t, res.RequiresDocumentation)
}

func TestCalculateBranchesAreStructural(t *testing.T) {
	// A custom table with unfamiliar category names behaves identically.
	table := &RuleTable{
		StrategyName: "custom",
		Categories: map[string]Rule{
			"Drone Parts": {WorkUseApplicable: true, Threshold: ptr(1000), DepreciationYears: ptr(5)},
			"Union Dues":  {WorkUseApplicable: false},
		},
	}
	e := NewEngine(table, nil)

	assert.Equal(t, 400.0, e.Calculate(500.0, "Drone Parts", 80).DeductibleAmount)
	assert.Equal(t, 320.0, e.Calculate(2000.0, "Drone Parts", 80).DeductibleAmount) // 2000*0.8/5
	assert.Equal(t, 75.0, e.Calculate(75.0, "Union Dues", 10).DeductibleAmount)
}
