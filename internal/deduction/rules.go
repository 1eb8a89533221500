package deduction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Rule describes how one expense category may be claimed. A nil Threshold
// means the category has no immediate/depreciation split; a nil
// DepreciationYears falls back to the default write-off period.
type Rule struct {
	WorkUseApplicable     bool     `json:"work_use_applicable"`
	Threshold             *float64 `json:"threshold,omitempty"`
	DepreciationYears     *float64 `json:"depreciation_years,omitempty"`
	ClaimMethod           string   `json:"claim_method,omitempty"`
	ClaimNotes            string   `json:"claim_notes,omitempty"`
	AtoReference          string   `json:"ato_reference,omitempty"`
	RequiredDocumentation string   `json:"required_documentation,omitempty"`
}

// RuleTable is a named strategy mapping categories to claim rules.
type RuleTable struct {
	StrategyName string          `json:"strategy_name"`
	Categories   map[string]Rule `json:"categories"`
}

const DefaultDepreciationYears = 3.0

// ruleTableSchema is the structural contract for custom rule files,
// checked before decoding so a typoed key fails loudly instead of
// silently zeroing a claim.
const ruleTableSchema = `{
	"type": "object",
	"properties": {
		"strategy_name": {"type": "string", "minLength": 1},
		"categories": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": "object",
				"properties": {
					"work_use_applicable":    {"type": "boolean"},
					"threshold":              {"type": "number", "minimum": 0},
					"depreciation_years":     {"type": "number", "exclusiveMinimum": 0},
					"claim_method":           {"type": "string"},
					"claim_notes":            {"type": "string"},
					"ato_reference":          {"type": "string"},
					"required_documentation": {"type": "string"}
				},
				"additionalProperties": false
			}
		}
	},
	"required": ["strategy_name", "categories"]
}`

// LoadRuleTable reads a rule table from a JSON file. Validation is
// wholesale: any bad entry rejects the file so a typo cannot silently
// change claim amounts.
func LoadRuleTable(path string) (*RuleTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	if err := validateRuleTableJSON(raw); err != nil {
		return nil, fmt.Errorf("rule table %s: %w", path, err)
	}
	var table RuleTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

func validateRuleTableJSON(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.json", bytes.NewReader([]byte(ruleTableSchema))); err != nil {
		return err
	}
	schema, err := compiler.Compile("rules.json")
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	return schema.Validate(v)
}

func (t *RuleTable) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("rule table %q has no categories", t.StrategyName)
	}
	for name, rule := range t.Categories {
		if rule.Threshold != nil && *rule.Threshold < 0 {
			return fmt.Errorf("category %q: threshold must not be negative", name)
		}
		if rule.DepreciationYears != nil && *rule.DepreciationYears <= 0 {
			return fmt.Errorf("category %q: depreciation_years must be positive", name)
		}
	}
	return nil
}

func ptr(v float64) *float64 { return &v }

// DefaultATORules is the built-in claim strategy for a software
// professional working from home, per ATO guidance for FY2024-25.
func DefaultATORules() *RuleTable {
	return &RuleTable{
		StrategyName: "ATO Work From Home - Actual Cost Method",
		Categories: map[string]Rule{
			"Electricity": {
				WorkUseApplicable:     true,
				ClaimMethod:           "Actual cost method (work-use portion)",
				ClaimNotes:            "Claim the work-related portion of running expenses.",
				AtoReference:          "ATO: Working from home expenses - actual cost method",
				RequiredDocumentation: "Bills plus a 4-week representative diary",
			},
			"Internet": {
				WorkUseApplicable:     true,
				ClaimMethod:           "Actual cost method (work-use portion)",
				ClaimNotes:            "Apportion between work and private use.",
				AtoReference:          "ATO: Phone and internet expenses",
				RequiredDocumentation: "Monthly bills and usage records",
			},
			"Phone & Mobile": {
				WorkUseApplicable:     true,
				ClaimMethod:           "Actual cost method (work-use portion)",
				ClaimNotes:            "Apportion between work and private use.",
				AtoReference:          "ATO: Phone and internet expenses",
				RequiredDocumentation: "Monthly bills and usage records",
			},
			"Software & Subscriptions": {
				WorkUseApplicable:     true,
				Threshold:             ptr(300),
				ClaimMethod:           "Immediate deduction under $300, otherwise apportioned",
				ClaimNotes:            "Work-related software and online subscriptions.",
				AtoReference:          "ATO: Self-education and professional subscriptions",
				RequiredDocumentation: "Invoices showing subscription period",
			},
			"Computer Equipment": {
				WorkUseApplicable:     true,
				Threshold:             ptr(300),
				DepreciationYears:     ptr(3),
				ClaimMethod:           "Immediate deduction under $300, decline in value above",
				ClaimNotes:            "Depreciate items over $300 across the effective life.",
				AtoReference:          "ATO: Decline in value of depreciating assets",
				RequiredDocumentation: "Purchase invoice and depreciation schedule",
			},
			"Professional Development": {
				WorkUseApplicable:     false,
				ClaimMethod:           "Fully deductible",
				ClaimNotes:            "Courses and training directly related to current employment.",
				AtoReference:          "ATO: Self-education expenses",
				RequiredDocumentation: "Course invoice and outline",
			},
			"Professional Membership": {
				WorkUseApplicable:     false,
				ClaimMethod:           "Fully deductible",
				ClaimNotes:            "Union fees and professional association memberships.",
				AtoReference:          "ATO: Union fees and subscriptions to associations",
				RequiredDocumentation: "Membership invoice or renewal notice",
			},
			"Office Supplies": {
				WorkUseApplicable:     true,
				Threshold:             ptr(300),
				ClaimMethod:           "Immediate deduction under $300",
				ClaimNotes:            "Stationery and consumables used for work.",
				AtoReference:          "ATO: Other work-related deductions",
				RequiredDocumentation: "Receipts",
			},
			"Communication Tools": {
				WorkUseApplicable:     true,
				ClaimMethod:           "Actual cost method (work-use portion)",
				ClaimNotes:            "Headsets, webcams and similar used for remote work.",
				AtoReference:          "ATO: Working from home expenses",
				RequiredDocumentation: "Receipts",
			},
		},
	}
}
