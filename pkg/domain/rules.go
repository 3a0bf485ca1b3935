package domain

import "context"

// Record is a raw catalog row before validation and numeric parsing. Line is
// the 1-based position in the backing file, header included.
type Record struct {
	Line     int
	Category string
	Brand    string
	Model    string
	Variant  string
	Weight   string
	Price    string
	Notes    string
	Source   string
	Link     string
}

// RowView provides read-only access to rows already accepted during a load or
// append, for rules that compare against prior rows.
type RowView interface {
	Parts() []Part
}

// Rule validates a single raw row before it joins the catalog.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RowView, rec Record) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules against a row and aggregates their
// results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RowView, rec Record) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, rec)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
