package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"buildplan/internal/ui"
	"buildplan/pkg/domain"
	"go.uber.org/zap"
)

// Session drives the interactive selection loop over every catalog category.
type Session struct {
	in       *bufio.Scanner
	out      io.Writer
	currency string
	logger   *zap.Logger
}

// NewSession constructs a session reading selections from in and writing
// prompts to out. Callers that also prompt on the same input must hand over
// their scanner rather than the underlying reader, or buffered lines get
// lost between consumers. A nil logger discards.
func NewSession(in *bufio.Scanner, out io.Writer, currency string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		in:       in,
		out:      out,
		currency: currency,
		logger:   logger,
	}
}

// Run walks the categories in catalog order and prompts for one part each.
// Seeds preselect a part per category; an empty line keeps the seed where one
// exists and otherwise skips the category. Running totals are printed after
// every category. The returned map holds only the chosen parts.
func (s *Session) Run(ctx context.Context, catalog *domain.Catalog, seeds map[string]domain.Part) (map[string]domain.Part, error) {
	picks := make(map[string]domain.Part)
	for _, category := range catalog.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed, seeded := seeds[category]
		part, chosen, err := s.pickForCategory(category, catalog.Options(category), seed, seeded)
		if err != nil {
			return nil, err
		}
		if chosen {
			picks[category] = part
			s.logger.Debug("part selected",
				zap.String("category", category),
				zap.String("part", part.Label()))
		}
		s.printTotals(picks)
	}
	return picks, nil
}

// pickForCategory prints the option list and reads selections until one is
// accepted. The grammar is uniform: a number picks from the visible list,
// /text narrows the full list to matching parts, and an empty line keeps the
// seed or skips. Invalid input re-prompts without limit.
func (s *Session) pickForCategory(category string, options []domain.Part, seed domain.Part, seeded bool) (domain.Part, bool, error) {
	fmt.Fprintf(s.out, "\n%s\n", ui.Category.Render("Category: "+category))
	for i, p := range options {
		fmt.Fprintln(s.out, "  "+optionLine(i+1, p))
	}
	if seeded {
		fmt.Fprintln(s.out, "  "+ui.Help.Render(fmt.Sprintf("(Press Enter to keep current: %s)", seed.Label())))
	}

	active := options
	for {
		fmt.Fprint(s.out, "Choose # (or /text to search, Enter to skip): ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return domain.Part{}, false, fmt.Errorf("read input: %w", err)
			}
			return domain.Part{}, false, fmt.Errorf("input closed")
		}
		line := strings.TrimSpace(s.in.Text())

		if line == "" {
			if seeded {
				return seed, true, nil
			}
			return domain.Part{}, false, nil
		}

		if strings.HasPrefix(line, "/") {
			filtered := filterOptions(options, strings.TrimSpace(line[1:]))
			if len(filtered) == 0 {
				fmt.Fprintln(s.out, "  No match.")
				continue
			}
			for i, p := range filtered {
				fmt.Fprintln(s.out, "    "+optionLine(i+1, p))
			}
			active = filtered
			continue
		}

		idx, err := parseChoice(line, len(active))
		if err != nil {
			s.logger.Debug("selection rejected",
				zap.String("category", category),
				zap.String("input", line),
				zap.Error(err))
			fmt.Fprintln(s.out, ui.Warn.Render("Invalid, try again."))
			continue
		}
		return active[idx], true, nil
	}
}

func (s *Session) printTotals(picks map[string]domain.Part) {
	var weight, price float64
	for _, p := range picks {
		weight += p.WeightGrams
		price += p.Price
	}
	line := fmt.Sprintf("Current totals: %.0f g,  $%.0f %s", weight, price, s.currency)
	fmt.Fprintf(s.out, "\n%s\n", ui.Success.Render(line))
}

func optionLine(n int, p domain.Part) string {
	return fmt.Sprintf("%d. %s  [%s]  %.0f g  $%.0f", n, p.Label(), p.Variant, p.WeightGrams, p.Price)
}

// filterOptions narrows by case-insensitive substring over brand and model,
// the same haystack declarative resolution searches. An empty query matches
// everything.
func filterOptions(options []domain.Part, query string) []domain.Part {
	lowered := strings.ToLower(query)
	var filtered []domain.Part
	for _, p := range options {
		if strings.Contains(strings.ToLower(p.Label()), lowered) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// parseChoice validates a typed option number against the visible list.
func parseChoice(input string, n int) (int, error) {
	idx, err := strconv.Atoi(input)
	if err != nil {
		return 0, domain.InvalidInputError{Input: input, Reason: "expected an option number, /text, or an empty line"}
	}
	if idx < 1 || idx > n {
		return 0, domain.InvalidInputError{Input: input, Reason: fmt.Sprintf("option number out of range 1..%d", n)}
	}
	return idx - 1, nil
}
