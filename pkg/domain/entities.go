// Package domain defines the catalog and scenario value types, the error
// taxonomy, and the row validation primitives used by buildplan.
package domain

import (
	"strings"
	"time"
)

// Part is a single catalog option within a category.
type Part struct {
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Variant     string  `json:"variant"`
	WeightGrams float64 `json:"weight_g"`
	Price       float64 `json:"price"`
	Notes       string  `json:"notes,omitempty"`
	Source      string  `json:"source,omitempty"`
	Link        string  `json:"link,omitempty"`
}

// Label returns the "Brand Model" identifier used for display, search, and
// declarative resolution.
func (p Part) Label() string {
	return strings.TrimSpace(p.Brand + " " + p.Model)
}

// Catalog groups parts by category. Category order is first-seen order from
// the backing file; parts within a category keep file order. Both orders are
// the display and export orders everywhere downstream.
type Catalog struct {
	order      []string
	byCategory map[string][]Part
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byCategory: make(map[string][]Part)}
}

// Add appends a part under its own category, registering the category on
// first sight.
func (c *Catalog) Add(p Part) {
	if _, ok := c.byCategory[p.Category]; !ok {
		c.order = append(c.order, p.Category)
	}
	c.byCategory[p.Category] = append(c.byCategory[p.Category], p)
}

// Categories returns the category names in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Options returns the parts of a category in file order.
func (c *Catalog) Options(category string) []Part {
	parts := c.byCategory[category]
	out := make([]Part, len(parts))
	copy(out, parts)
	return out
}

// Parts returns every part in display order: categories as first seen, parts
// in file order within each. The result satisfies RowView for rules that
// compare a candidate row against accepted rows.
func (c *Catalog) Parts() []Part {
	out := make([]Part, 0, c.Len())
	for _, category := range c.order {
		out = append(out, c.byCategory[category]...)
	}
	return out
}

// Len reports the total number of parts across all categories.
func (c *Catalog) Len() int {
	n := 0
	for _, parts := range c.byCategory {
		n += len(parts)
	}
	return n
}

// Empty reports whether the catalog holds no parts.
func (c *Catalog) Empty() bool {
	return c.Len() == 0
}

// Scenario is a named build: at most one chosen part per category. Categories
// absent from Chosen have no selection. A saved scenario is never mutated;
// reuse happens by cloning its picks into a new scenario.
type Scenario struct {
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Chosen    map[string]Part `json:"chosen"`
}

// NewScenario constructs an empty scenario stamped with the given creation time.
func NewScenario(name string, createdAt time.Time) Scenario {
	return Scenario{Name: name, CreatedAt: createdAt.UTC(), Chosen: make(map[string]Part)}
}

// Choose records the selection for a category, replacing any prior choice.
func (s *Scenario) Choose(category string, p Part) {
	if s.Chosen == nil {
		s.Chosen = make(map[string]Part)
	}
	s.Chosen[category] = p
}

// Pick returns the selection for a category if one was made.
func (s Scenario) Pick(category string) (Part, bool) {
	p, ok := s.Chosen[category]
	return p, ok
}

// SummaryRow is one selected part flattened for tabular output.
type SummaryRow struct {
	Category    string
	Brand       string
	Model       string
	Variant     string
	WeightGrams float64
	Price       float64
}

// Summary aggregates a scenario's selections. Rows cover only categories with
// a selection, in catalog category order; skipped categories are omitted and
// contribute nothing to the totals.
type Summary struct {
	TotalWeightGrams float64
	TotalPrice       float64
	Rows             []SummaryRow
}

// Summarize derives the summary for a scenario against a catalog. It is a
// pure function of its inputs: equal catalog order and equal selections yield
// an identical summary. Selections for categories the catalog no longer
// contains are ignored.
func Summarize(catalog *Catalog, s Scenario) Summary {
	var sum Summary
	for _, category := range catalog.Categories() {
		p, ok := s.Pick(category)
		if !ok {
			continue
		}
		sum.Rows = append(sum.Rows, SummaryRow{
			Category:    p.Category,
			Brand:       p.Brand,
			Model:       p.Model,
			Variant:     p.Variant,
			WeightGrams: p.WeightGrams,
			Price:       p.Price,
		})
		sum.TotalWeightGrams += p.WeightGrams
		sum.TotalPrice += p.Price
	}
	return sum
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine whether a row is kept and how the
// violation is reported.
const (
	// SeverityBlock rejects the row.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but keeps the row.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a failed rule evaluation for a catalog row.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Line     int
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}
