// Package report renders a scenario and its summary into the export formats
// and writes report files atomically. Renderers are pure: equal inputs
// produce byte-identical output, and the three formats always agree on the
// totals.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"buildplan/pkg/domain"
)

// Format identifies a report output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// CSVColumns is the header of the tabular export.
var CSVColumns = []string{"Category", "Brand", "Model", "Variant", "Weight (g)", "Price"}

// Renderer materializes scenario exports. Currency is the suffix shown in
// readable output; the structured and tabular formats stay currency-agnostic.
type Renderer struct {
	currency string
}

// NewRenderer constructs a renderer with the given currency suffix.
func NewRenderer(currency string) *Renderer {
	return &Renderer{currency: currency}
}

// Render materializes the scenario in the given format.
func (r *Renderer) Render(format Format, s domain.Scenario, sum domain.Summary) ([]byte, error) {
	switch format {
	case FormatJSON:
		return Encode(s, sum)
	case FormatCSV:
		return renderCSV(sum)
	case FormatMarkdown:
		return r.renderMarkdown(s, sum), nil
	default:
		return nil, fmt.Errorf("unsupported report format %s", format)
	}
}

type envelope struct {
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"created_at"`
	Chosen    map[string]domain.Part `json:"chosen"`
	Totals    totals                 `json:"totals"`
}

type totals struct {
	WeightGrams float64 `json:"weight_g"`
	Price       float64 `json:"price"`
}

// Encode serializes a scenario and its totals as the canonical JSON
// envelope. The same bytes serve as the JSON report and as the persisted
// scenario payload.
func Encode(s domain.Scenario, sum domain.Summary) ([]byte, error) {
	chosen := s.Chosen
	if chosen == nil {
		chosen = map[string]domain.Part{}
	}
	payload, err := json.MarshalIndent(envelope{
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		Chosen:    chosen,
		Totals:    totals{WeightGrams: sum.TotalWeightGrams, Price: sum.TotalPrice},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scenario: %w", err)
	}
	return append(payload, '\n'), nil
}

// Decode restores a scenario from structured report bytes. Totals are not
// trusted from the payload; callers recompute them via domain.Summarize.
func Decode(data []byte) (domain.Scenario, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return domain.Scenario{Name: env.Name, CreatedAt: env.CreatedAt, Chosen: env.Chosen}, nil
}

func renderCSV(sum domain.Summary) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(CSVColumns); err != nil {
		return nil, err
	}
	for _, row := range sum.Rows {
		record := []string{
			row.Category,
			row.Brand,
			row.Model,
			row.Variant,
			FormatNumber(row.WeightGrams),
			FormatNumber(row.Price),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	if err := writer.Write([]string{"Total", "", "", "", FormatNumber(sum.TotalWeightGrams), FormatNumber(sum.TotalPrice)}); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderMarkdown(s domain.Scenario, sum domain.Summary) []byte {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "# Scenario: %s\n\n", s.Name)
	fmt.Fprintf(buf, "| Category | Brand | Model | Variant | Weight (g) | Price (%s) |\n", r.currency)
	buf.WriteString("|---|---|---|---|---:|---:|\n")
	for _, row := range sum.Rows {
		fmt.Fprintf(buf, "| %s | %s | %s | %s | %s | %s |\n",
			row.Category, row.Brand, row.Model, row.Variant,
			FormatNumber(row.WeightGrams), FormatNumber(row.Price))
	}
	fmt.Fprintf(buf, "\n**Totals:** %s g,  $%s %s\n",
		FormatNumber(sum.TotalWeightGrams), FormatNumber(sum.TotalPrice), r.currency)
	return []byte(buf.String())
}

// FormatNumber renders a numeric value the same way in every export format.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
