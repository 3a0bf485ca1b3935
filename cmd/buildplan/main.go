// Command buildplan assembles a bike build from a parts catalog, tracks
// running weight and price totals, and exports the result as JSON, CSV and
// Markdown reports.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"buildplan/internal/catalog"
	"buildplan/internal/config"
	"buildplan/internal/logging"
	"buildplan/internal/report"
	"buildplan/internal/scenario"
	"buildplan/internal/selector"
	"buildplan/internal/telemetry"
	"buildplan/internal/ui"
	"buildplan/pkg/domain"
	"go.uber.org/zap"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	cloneLast    bool
	name         string
	autoSave     bool
	scenarioFile string
	save         bool
	addPart      bool
}

func cli(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("buildplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.BoolVar(&opts.cloneLast, "clone-last", false, "seed selections from the most recently saved scenario")
	fs.StringVar(&opts.name, "name", "", "scenario name, skipping the name prompt")
	fs.BoolVar(&opts.autoSave, "auto-save", false, "save without asking")
	fs.StringVar(&opts.scenarioFile, "scenario", "", "build from a yaml/json mapping file instead of prompting")
	fs.BoolVar(&opts.save, "save", false, "persist the scenario built with -scenario")
	fs.BoolVar(&opts.addPart, "add-part", false, "append a new part to the catalog and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "buildplan: %v\n", err)
		return 1
	}
	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: telemetry.NewRecorder(""),
		in:      bufio.NewScanner(stdin),
		stdout:  stdout,
		stderr:  stderr,
	}
	defer func() { logger.Debug("operation metrics", zap.Any("snapshot", a.metrics.Snapshot())) }()
	if err := a.run(context.Background(), opts); err != nil {
		fmt.Fprintf(stderr, "buildplan: %v\n", err)
		return 1
	}
	return 0
}

// app wires the catalog, stores and prompts together for one invocation.
// All prompt reads go through the single shared scanner.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	metrics   *telemetry.Recorder
	in        *bufio.Scanner
	stdout    io.Writer
	stderr    io.Writer
	scenarios domain.ScenarioStore
}

func (a *app) run(ctx context.Context, opts options) error {
	if opts.addPart {
		return a.addPart(ctx)
	}

	loader := catalog.NewLoader(nil, a.logger)
	start := time.Now()
	cat, violations, err := loader.Load(ctx, a.cfg.CatalogPath)
	a.metrics.Observe("load_catalog", err == nil, time.Since(start))
	if err != nil {
		return err
	}
	a.printViolations(violations)
	if cat.Empty() {
		fmt.Fprintf(a.stdout, "No parts found in %s\n", a.cfg.CatalogPath)
		return nil
	}

	if opts.scenarioFile != "" {
		return a.fromFile(ctx, cat, opts)
	}
	return a.interactive(ctx, cat, opts)
}

// addPart drives the catalog editor. The current catalog is loaded first so
// duplicate warnings can fire; a missing catalog file starts from scratch.
func (a *app) addPart(ctx context.Context) error {
	loader := catalog.NewLoader(nil, a.logger)
	view, violations, err := loader.Load(ctx, a.cfg.CatalogPath)
	var missing domain.CatalogMissingError
	switch {
	case errors.As(err, &missing):
		view = domain.NewCatalog()
	case err != nil:
		return err
	default:
		a.printViolations(violations)
	}

	editor := catalog.NewEditor(a.in, a.stdout, a.cfg.Currency, nil, a.logger)
	rec, err := editor.Collect(ctx, a.cfg.CatalogPath)
	if err != nil {
		return err
	}
	start := time.Now()
	part, res, err := editor.Append(ctx, a.cfg.CatalogPath, view, rec)
	a.metrics.Observe("append_part", err == nil, time.Since(start))
	if err != nil {
		return err
	}
	a.printViolations(res.Violations)
	a.logger.Info("catalog extended", zap.String("part", part.Label()))
	fmt.Fprintln(a.stdout, ui.Success.Render("Added to "+a.cfg.CatalogPath))
	return nil
}

// fromFile builds a scenario from a declarative mapping file. The scenario
// is named after the file.
func (a *app) fromFile(ctx context.Context, cat *domain.Catalog, opts options) error {
	mapping, err := selector.ParseMappingFile(opts.scenarioFile)
	if err != nil {
		return err
	}
	start := time.Now()
	picks, err := selector.Resolve(cat, mapping)
	a.metrics.Observe("resolve_scenario", err == nil, time.Since(start))
	if err != nil {
		return err
	}

	base := filepath.Base(opts.scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	sc := domain.NewScenario(name, time.Now())
	for category, part := range picks {
		sc.Choose(category, part)
	}
	sum := domain.Summarize(cat, sc)

	fmt.Fprintf(a.stdout, "Scenario from file: %s\n", name)
	for _, row := range sum.Rows {
		fmt.Fprintf(a.stdout, "- %s: %s %s [%s]  %.0f g  $%.0f\n",
			row.Category, row.Brand, row.Model, row.Variant, row.WeightGrams, row.Price)
	}
	fmt.Fprintf(a.stdout, "\nTotals: %.0f g,  $%.0f %s\n",
		sum.TotalWeightGrams, sum.TotalPrice, a.cfg.Currency)

	if opts.save {
		if _, err := a.persist(ctx, cat, sc); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) interactive(ctx context.Context, cat *domain.Catalog, opts options) error {
	seeds := map[string]domain.Part{}
	if opts.cloneLast {
		store, err := a.store()
		if err != nil {
			return err
		}
		last, ok, err := store.Latest(ctx)
		if err != nil {
			return err
		}
		if ok {
			seeds = selector.Seeds(cat, last)
			a.logger.Info("seeding from last scenario",
				zap.String("scenario", last.Name),
				zap.Int("seeds", len(seeds)))
		}
	}

	fmt.Fprintln(a.stdout, ui.Title.Render("Build Planner"))
	fmt.Fprintf(a.stdout, "Catalog: %s\n\n", a.cfg.CatalogPath)
	for i, category := range cat.Categories() {
		fmt.Fprintf(a.stdout, "  %d. %s (%d options)\n", i+1, category, len(cat.Options(category)))
	}
	fmt.Fprintln(a.stdout)

	name := opts.name
	if name == "" {
		entered, err := a.promptLine("Scenario name (e.g., Ultra-Light-01): ")
		if err != nil {
			return err
		}
		name = entered
	}
	if name == "" {
		name = "scenario-" + time.Now().Format("20060102-150405")
	}
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	session := selector.NewSession(a.in, a.stdout, a.cfg.Currency, a.logger)
	start := time.Now()
	picks, err := session.Run(ctx, cat, seeds)
	a.metrics.Observe("interactive_session", err == nil, time.Since(start))
	if err != nil {
		return err
	}

	sc := domain.NewScenario(name, time.Now())
	for category, part := range picks {
		sc.Choose(category, part)
	}

	if !opts.autoSave {
		answer, err := a.promptLine("Save scenario? (y/N): ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			return nil
		}
	}
	location, err := a.persist(ctx, cat, sc)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, ui.Notice.Render(
		fmt.Sprintf("Saved: %s and reports in %s", location, a.cfg.ReportDir)))
	return nil
}

// persist writes the scenario to the store and the csv and markdown reports
// beside it. The stored JSON payload doubles as the JSON report.
func (a *app) persist(ctx context.Context, cat *domain.Catalog, sc domain.Scenario) (string, error) {
	store, err := a.store()
	if err != nil {
		return "", err
	}
	start := time.Now()
	err = store.Save(ctx, sc)
	a.metrics.Observe("save_scenario", err == nil, time.Since(start))
	if err != nil {
		return "", err
	}

	sum := domain.Summarize(cat, sc)
	writer := report.NewWriter(a.cfg.ReportDir, a.logger)
	start = time.Now()
	_, err = writer.Write(ctx, report.NewRenderer(a.cfg.Currency), sc, sum,
		report.FormatCSV, report.FormatMarkdown)
	a.metrics.Observe("write_reports", err == nil, time.Since(start))
	if err != nil {
		return "", err
	}
	return a.savedLocation(sc.Name), nil
}

func (a *app) store() (domain.ScenarioStore, error) {
	if a.scenarios == nil {
		s, err := scenario.Open(scenario.StorageDriver(a.cfg.StorageDriver),
			a.cfg.ScenarioDir, a.cfg.SQLitePath, a.logger)
		if err != nil {
			return nil, err
		}
		a.scenarios = s
	}
	return a.scenarios, nil
}

// savedLocation names where the scenario landed, for the confirmation line.
func (a *app) savedLocation(name string) string {
	switch scenario.StorageDriver(a.cfg.StorageDriver) {
	case scenario.DriverSQLite:
		if a.cfg.SQLitePath != "" {
			return a.cfg.SQLitePath
		}
		return "buildplan.db"
	case scenario.DriverMemory:
		return name
	default:
		return filepath.Join(a.cfg.ScenarioDir, name+".json")
	}
}

func (a *app) promptLine(prompt string) (string, error) {
	fmt.Fprint(a.stdout, prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *app) printViolations(violations []domain.Violation) {
	for _, v := range violations {
		fmt.Fprintln(a.stderr, ui.Warn.Render(catalog.FormatViolation(v)))
	}
}
