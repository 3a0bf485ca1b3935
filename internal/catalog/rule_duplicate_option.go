package catalog

import (
	"context"
	"fmt"
	"strings"

	"buildplan/pkg/domain"
)

// NewDuplicateOptionRule returns the rule flagging rows whose
// category, brand, model, and variant all repeat an accepted row. Duplicates
// are kept; the violation only warns.
func NewDuplicateOptionRule() domain.Rule {
	return duplicateOptionRule{}
}

type duplicateOptionRule struct{}

func (duplicateOptionRule) Name() string { return "duplicate_option" }

func (duplicateOptionRule) Evaluate(_ context.Context, view domain.RowView, rec domain.Record) (domain.Result, error) {
	key := optionKey(rec.Category, rec.Brand, rec.Model, rec.Variant)
	res := domain.Result{}
	for _, p := range view.Parts() {
		if optionKey(p.Category, p.Brand, p.Model, p.Variant) != key {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "duplicate_option",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("duplicate of %s %s (%s)", p.Label(), p.Variant, p.Category),
			Line:     rec.Line,
		})
		break
	}
	return res, nil
}

func optionKey(category, brand, model, variant string) string {
	fields := []string{category, brand, model, variant}
	for i, f := range fields {
		fields[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return strings.Join(fields, "|")
}
