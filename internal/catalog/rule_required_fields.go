// Package catalog loads, validates, and appends to the parts catalog file.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"buildplan/pkg/domain"
)

// NewRequiredFieldsRule returns the rule requiring category, brand, and model
// on every row.
func NewRequiredFieldsRule() domain.Rule {
	return requiredFieldsRule{}
}

type requiredFieldsRule struct{}

func (requiredFieldsRule) Name() string { return "required_fields" }

func (requiredFieldsRule) Evaluate(_ context.Context, _ domain.RowView, rec domain.Record) (domain.Result, error) {
	res := domain.Result{}
	for _, check := range []struct {
		field string
		value string
	}{
		{"category", rec.Category},
		{"brand", rec.Brand},
		{"model", rec.Model},
	} {
		if strings.TrimSpace(check.value) == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "required_fields",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s is required", check.field),
				Line:     rec.Line,
			})
		}
	}
	return res, nil
}
