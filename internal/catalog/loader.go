package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"buildplan/pkg/domain"
	"go.uber.org/zap"
)

// Columns lists the canonical catalog header in file order.
var Columns = []string{"category", "brand", "model", "variant", "weight_g", "price", "notes", "source", "link"}

// headerAliases maps legacy column names onto canonical ones so older
// catalog files keep loading.
var headerAliases = map[string]string{
	"weight":    "weight_g",
	"price_sgd": "price",
}

// DefaultRules returns a rules engine with the built-in row rules registered.
func DefaultRules() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewRequiredFieldsRule())
	engine.Register(NewNumericBoundsRule())
	engine.Register(NewDuplicateOptionRule())
	return engine
}

// Loader reads the parts catalog and validates every row through the rules
// engine before it joins the catalog.
type Loader struct {
	engine *domain.RulesEngine
	logger *zap.Logger
}

// NewLoader constructs a loader. A nil engine gets the default rules; a nil
// logger discards.
func NewLoader(engine *domain.RulesEngine, logger *zap.Logger) *Loader {
	if engine == nil {
		engine = DefaultRules()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{engine: engine, logger: logger}
}

// Load reads the catalog at path. Rows with blocking violations are skipped
// and reported in the returned slice; warn violations keep the row. Category
// order is first-seen, part order within a category is file order. A missing
// file is domain.CatalogMissingError.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Catalog, []domain.Violation, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, domain.CatalogMissingError{Path: path}
		}
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	cat, violations, err := l.read(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	l.logger.Debug("catalog loaded",
		zap.String("path", path),
		zap.Int("parts", cat.Len()),
		zap.Int("categories", len(cat.Categories())),
		zap.Int("violations", len(violations)))
	return cat, violations, nil
}

func (l *Loader) read(ctx context.Context, r io.Reader) (*domain.Catalog, []domain.Violation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return domain.NewCatalog(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}
	index := headerIndex(header)

	cat := domain.NewCatalog()
	var violations []domain.Violation
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			violations = append(violations, domain.Violation{
				Rule:     "csv_syntax",
				Severity: domain.SeverityBlock,
				Message:  parseErr.Err.Error(),
				Line:     parseErr.Line,
			})
			l.logger.Warn("catalog row skipped", zap.Int("line", parseErr.Line), zap.String("reason", parseErr.Err.Error()))
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		line, _ := reader.FieldPos(0)
		rec := recordFromFields(index, fields, line)
		res, err := l.engine.Evaluate(ctx, cat, rec)
		if err != nil {
			return nil, nil, fmt.Errorf("evaluate line %d: %w", line, err)
		}
		violations = append(violations, res.Violations...)
		if res.HasBlocking() {
			l.logger.Warn("catalog row skipped", zap.Int("line", line), zap.String("reason", blockingReason(res)))
			continue
		}
		for _, v := range res.Violations {
			l.logger.Warn("catalog row flagged", zap.Int("line", v.Line), zap.String("rule", v.Rule), zap.String("reason", v.Message))
		}
		cat.Add(partFromRecord(rec))
	}
	return cat, violations, nil
}

// headerIndex maps canonical column names to their positions, resolving
// legacy aliases.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := headerAliases[key]; ok {
			key = canonical
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	return index
}

func recordFromFields(index map[string]int, fields []string, line int) domain.Record {
	pick := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	return domain.Record{
		Line:     line,
		Category: pick("category"),
		Brand:    pick("brand"),
		Model:    pick("model"),
		Variant:  pick("variant"),
		Weight:   pick("weight_g"),
		Price:    pick("price"),
		Notes:    pick("notes"),
		Source:   pick("source"),
		Link:     pick("link"),
	}
}

// partFromRecord converts a validated record. Numeric fields are already
// known to parse; empty ones default to zero.
func partFromRecord(rec domain.Record) domain.Part {
	return domain.Part{
		Category:    rec.Category,
		Brand:       rec.Brand,
		Model:       rec.Model,
		Variant:     rec.Variant,
		WeightGrams: parseOrZero(rec.Weight),
		Price:       parseOrZero(rec.Price),
		Notes:       rec.Notes,
		Source:      rec.Source,
		Link:        rec.Link,
	}
}

func parseOrZero(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// blockingReason joins the blocking messages of a result for log output.
func blockingReason(res domain.Result) string {
	var reasons []string
	for _, v := range res.Violations {
		if v.Severity == domain.SeverityBlock {
			reasons = append(reasons, v.Message)
		}
	}
	return strings.Join(reasons, "; ")
}

// FormatViolation renders a violation the way the CLI reports skipped or
// flagged rows.
func FormatViolation(v domain.Violation) string {
	return domain.CatalogFormatError{Line: v.Line, Reason: v.Message}.Error()
}
