package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nathanfields/invoice-cataloger/internal/common"
	"github.com/nathanfields/invoice-cataloger/internal/deduction"
)

// Standalone deduction calculator: answers "what could I claim for this
// amount in this category" without running the pipeline.
func main() {
	var (
		category  = flag.String("category", "", "expense category (required)")
		amount    = flag.Float64("amount", 0, "invoice total (required)")
		workUse   = flag.Float64("workuse", 60, "work-use percentage 0-100")
		rulesPath = flag.String("rules", "", "custom rule table JSON (defaults to built-in ATO rules)")
		list      = flag.Bool("list", false, "list categories in the rule table and exit")
	)
	flag.Parse()

	log := common.NewJSONLogger("warn")

	rules := deduction.DefaultATORules()
	if *rulesPath != "" {
		loaded, err := deduction.LoadRuleTable(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rule table: %v\n", err)
			os.Exit(1)
		}
		rules = loaded
	}

	if *list {
		fmt.Printf("Strategy: %s\n", rules.StrategyName)
		for name, rule := range rules.Categories {
			fmt.Printf("  %-28s %s\n", name, rule.ClaimMethod)
		}
		return
	}

	if *category == "" || *amount <= 0 {
		fmt.Fprintln(os.Stderr, "usage: taxcalc -category <name> -amount <total> [-workuse <pct>] [-rules <file>]")
		os.Exit(2)
	}
	if *workUse < 0 || *workUse > 100 {
		fmt.Fprintln(os.Stderr, "workuse must be within 0-100")
		os.Exit(2)
	}

	engine := deduction.NewEngine(rules, log)
	res := engine.Calculate(*amount, *category, *workUse)

	fmt.Printf("Category          : %s\n", res.Category)
	fmt.Printf("Total amount      : $%.2f\n", res.TotalAmount)
	fmt.Printf("Work use          : %.0f%%\n", res.WorkUsePercentage)
	fmt.Printf("Deductible amount : $%.2f\n", res.DeductibleAmount)
	fmt.Printf("Claim method      : %s\n", res.ClaimMethod)
	if res.ClaimNotes != "" {
		fmt.Printf("Notes             : %s\n", res.ClaimNotes)
	}
	if res.AtoReference != "" {
		fmt.Printf("ATO reference     : %s\n", res.AtoReference)
	}
	if res.RequiresDocumentation != "" {
		fmt.Printf("Documentation     : %s\n", res.RequiresDocumentation)
	}
}
