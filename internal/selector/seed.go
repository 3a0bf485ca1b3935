package selector

import "buildplan/pkg/domain"

// Seeds maps a prior scenario's picks onto the live catalog. A pick carries
// over only when a part with the same brand and model still exists in that
// category; everything else is dropped so stale parts never leak into a new
// scenario.
func Seeds(catalog *domain.Catalog, prior domain.Scenario) map[string]domain.Part {
	seeds := make(map[string]domain.Part)
	for _, category := range catalog.Categories() {
		previous, ok := prior.Pick(category)
		if !ok {
			continue
		}
		for _, option := range catalog.Options(category) {
			if option.Brand == previous.Brand && option.Model == previous.Model {
				seeds[category] = option
				break
			}
		}
	}
	return seeds
}
