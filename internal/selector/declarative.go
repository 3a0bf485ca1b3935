package selector

import (
	"sort"
	"strings"

	"buildplan/pkg/domain"
)

// Resolve turns a category-to-query mapping into scenario picks. Every key
// must name a catalog category, and every non-empty query must resolve to
// exactly one part. An exact match on the model or the full brand-model
// label wins outright; otherwise a single case-insensitive substring match
// is required. Empty queries leave the category unselected.
func Resolve(catalog *domain.Catalog, mapping map[string]string) (map[string]domain.Part, error) {
	known := make(map[string]bool, catalog.Len())
	for _, category := range catalog.Categories() {
		known[category] = true
	}
	var unknown []string
	for category := range mapping {
		if !known[category] {
			unknown = append(unknown, category)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, domain.PartNotFoundError{Category: unknown[0], Query: mapping[unknown[0]]}
	}

	picks := make(map[string]domain.Part)
	for _, category := range catalog.Categories() {
		query, ok := mapping[category]
		if !ok || strings.TrimSpace(query) == "" {
			continue
		}
		part, err := matchPart(category, catalog.Options(category), query)
		if err != nil {
			return nil, err
		}
		picks[category] = part
	}
	return picks, nil
}

func matchPart(category string, options []domain.Part, query string) (domain.Part, error) {
	lowered := strings.ToLower(strings.TrimSpace(query))

	var exact []domain.Part
	for _, p := range options {
		if strings.ToLower(p.Model) == lowered || strings.ToLower(p.Label()) == lowered {
			exact = append(exact, p)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return domain.Part{}, domain.AmbiguousPartError{Category: category, Query: query, Matches: optionLabels(exact)}
	}

	var partial []domain.Part
	for _, p := range options {
		if strings.Contains(strings.ToLower(p.Label()), lowered) {
			partial = append(partial, p)
		}
	}
	switch len(partial) {
	case 0:
		return domain.Part{}, domain.PartNotFoundError{Category: category, Query: query}
	case 1:
		return partial[0], nil
	default:
		return domain.Part{}, domain.AmbiguousPartError{Category: category, Query: query, Matches: optionLabels(partial)}
	}
}

// optionLabels renders candidates for error messages, with the variant
// appended so same-label parts stay distinguishable.
func optionLabels(parts []domain.Part) []string {
	labels := make([]string, len(parts))
	for i, p := range parts {
		labels[i] = p.Label()
		if p.Variant != "" {
			labels[i] += " [" + p.Variant + "]"
		}
	}
	return labels
}
