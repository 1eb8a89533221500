package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nathanfields/invoice-cataloger/internal/categorize"
	"github.com/nathanfields/invoice-cataloger/internal/common"
	"github.com/nathanfields/invoice-cataloger/internal/deduction"
	"github.com/nathanfields/invoice-cataloger/internal/export"
	"github.com/nathanfields/invoice-cataloger/internal/extract"
	"github.com/nathanfields/invoice-cataloger/internal/llm"
	"github.com/nathanfields/invoice-cataloger/internal/pipeline"
	"github.com/nathanfields/invoice-cataloger/internal/resilience"
	"github.com/nathanfields/invoice-cataloger/internal/store"
)

func main() {
	var (
		dir        = flag.String("dir", "", "invoice base path (overrides INVOICE_BASE_PATH)")
		year       = flag.String("year", "", "financial year YYYY-YYYY (overrides FINANCIAL_YEAR)")
		reprocess  = flag.Bool("reprocess", false, "ignore the cache and reprocess every file")
		retryOnly  = flag.Bool("retry-failed", false, "process only previously failed files")
		listFailed = flag.Bool("list-failed", false, "list failure records and exit")
		workUse    = flag.Float64("work-use", -1, "work-use percentage 0-100 (overrides WORK_USE_PERCENTAGE)")
		csvOut     = flag.Bool("csv", false, "also write the catalog as CSV")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if *dir != "" {
		cfg.Paths.BasePath = *dir
	}
	if *year != "" {
		cfg.Paths.FinancialYear = *year
	}
	if *workUse >= 0 {
		cfg.Processing.WorkUsePercentage = *workUse
	}

	log := common.NewJSONLogger(cfg.LogLevel)

	failures := store.LoadFailures(cfg.FailedFilesPath(), log)
	if *listFailed {
		max := cfg.Processing.MaxRetryAttempts
		for _, r := range failures.Records() {
			state := "retry eligible"
			if r.AttemptCount >= max {
				state = "retries exhausted"
			}
			fmt.Printf("%s  attempts=%d/%d  [%s]  last=%s  reason=%s\n",
				r.FilePath, r.AttemptCount, max, state, r.LastAttempt, r.ErrorReason)
		}
		stats := failures.Stats(max)
		fmt.Printf("%d failure record(s), %d retry eligible\n", stats.Entries, stats.RetryEligible)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	execCfg := resilience.DefaultConfig()
	execCfg.MaxAttempts = cfg.LLM.RetryAttempts
	execCfg.RetryDelay = cfg.LLM.RetryDelay
	exec := resilience.NewExecutor(execCfg, log)
	client := llm.NewClient(cfg.LLM, exec, log)

	if !pipeline.CheckPrerequisites(ctx, cfg, client, log) {
		log.Error("prerequisites not met; aborting")
		os.Exit(1)
	}

	cache := store.LoadCache(cfg.CachePath(), log)
	overrides := categorize.LoadOverrides(cfg.Paths.VendorOverridesPath, log)
	categorizer := categorize.NewCategorizer(overrides, nil, log)

	rules := deduction.DefaultATORules()
	if cfg.Paths.DeductionRulesPath != "" {
		loaded, err := deduction.LoadRuleTable(cfg.Paths.DeductionRulesPath)
		if err != nil {
			log.Error("deduction rules unusable", "path", cfg.Paths.DeductionRulesPath, "error", err)
			os.Exit(1)
		}
		rules = loaded
	}
	engine := deduction.NewEngine(rules, log)

	chain := extract.NewChain(cfg.OCR, log)
	proc := pipeline.NewProcessor(cfg, chain, client, cache, failures, categorizer, engine, log)

	files, err := proc.ScanFiles()
	if err != nil {
		log.Error("scan failed", "error", err)
		os.Exit(1)
	}
	if *retryOnly {
		files = proc.RetryFiles(files)
	}
	if len(files) == 0 {
		log.Info("nothing to process")
		return
	}

	entries, stats, err := proc.ProcessAll(ctx, files, *reprocess)
	if err != nil {
		log.Error("batch persist failed", "error", err)
		os.Exit(1)
	}

	cacheStats := cache.Stats()
	failStats := failures.Stats(cfg.Processing.MaxRetryAttempts)
	log.Info("stores.stats",
		"cache_entries", cacheStats.Entries,
		"unique_vendors", cacheStats.UniqueVendors,
		"failure_records", failStats.Entries,
		"retry_eligible", failStats.RetryEligible,
	)

	exporter := export.NewExporter(log)
	xlsxPath := filepath.Join(cfg.OutputFolder(), fmt.Sprintf("invoice_catalog_FY%s.xlsx", cfg.Paths.FinancialYear))
	if err := exporter.WriteXLSX(xlsxPath, entries); err != nil {
		log.Error("xlsx export failed", "path", xlsxPath, "error", err)
	}
	if *csvOut {
		csvPath := filepath.Join(cfg.OutputFolder(), fmt.Sprintf("invoice_catalog_FY%s.csv", cfg.Paths.FinancialYear))
		if err := exporter.WriteCSV(csvPath, entries); err != nil {
			log.Error("csv export failed", "path", csvPath, "error", err)
		}
	}

	exporter.WriteSummary(os.Stdout, entries, stats)
}
