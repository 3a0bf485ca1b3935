package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"buildplan/pkg/domain"
)

// NewNumericBoundsRule returns the rule requiring weight and price to parse
// as non-negative numbers. Empty fields pass and later default to zero.
func NewNumericBoundsRule() domain.Rule {
	return numericBoundsRule{}
}

type numericBoundsRule struct{}

func (numericBoundsRule) Name() string { return "numeric_bounds" }

func (numericBoundsRule) Evaluate(_ context.Context, _ domain.RowView, rec domain.Record) (domain.Result, error) {
	res := domain.Result{}
	for _, check := range []struct {
		field string
		value string
	}{
		{"weight_g", rec.Weight},
		{"price", rec.Price},
	} {
		raw := strings.TrimSpace(check.value)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "numeric_bounds",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %q is not numeric", check.field, raw),
				Line:     rec.Line,
			})
			continue
		}
		if v < 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "numeric_bounds",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s must not be negative, got %s", check.field, raw),
				Line:     rec.Line,
			})
		}
	}
	return res, nil
}
