package catalog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"buildplan/internal/ui"
	"buildplan/pkg/domain"
	"go.uber.org/zap"
)

// Editor gathers a new catalog row interactively and appends it to the
// catalog file with the same validation as the loader.
type Editor struct {
	in       *bufio.Scanner
	out      io.Writer
	currency string
	engine   *domain.RulesEngine
	logger   *zap.Logger
}

// NewEditor constructs an editor reading answers from in and writing prompts
// to out. Callers sharing the input with other prompts must hand over their
// scanner, not the underlying reader. A nil engine gets the default rules; a
// nil logger discards.
func NewEditor(in *bufio.Scanner, out io.Writer, currency string, engine *domain.RulesEngine, logger *zap.Logger) *Editor {
	if engine == nil {
		engine = DefaultRules()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		in:       in,
		out:      out,
		currency: currency,
		engine:   engine,
		logger:   logger,
	}
}

type editorField struct {
	column   string
	prompt   string
	required bool
	numeric  bool
}

// Collect prompts for every part field. Required text fields and numeric
// fields re-prompt until usable, without a retry cap; optional fields may
// stay empty. An empty numeric field means zero.
func (e *Editor) Collect(ctx context.Context, path string) (domain.Record, error) {
	fmt.Fprintln(e.out, ui.Notice.Render("\nAdd a new part to "+path))
	fields := []editorField{
		{"category", "Category (e.g., Fork, Wheelset, Drivetrain): ", true, false},
		{"brand", "Brand: ", true, false},
		{"model", "Model: ", true, false},
		{"variant", "Variant (e.g., 29x2.35 TLR / 100-120mm Boost): ", false, false},
		{"weight_g", "Weight in grams (number): ", false, true},
		{"price", fmt.Sprintf("Price in %s (number): ", e.currency), false, true},
		{"notes", "Notes (optional): ", false, false},
		{"source", "Source/store (optional): ", false, false},
		{"link", "Link (optional): ", false, false},
	}

	values := make(map[string]string, len(fields))
	for _, field := range fields {
		value, err := e.ask(field)
		if err != nil {
			return domain.Record{}, err
		}
		values[field.column] = value
	}
	return domain.Record{
		Category: values["category"],
		Brand:    values["brand"],
		Model:    values["model"],
		Variant:  values["variant"],
		Weight:   values["weight_g"],
		Price:    values["price"],
		Notes:    values["notes"],
		Source:   values["source"],
		Link:     values["link"],
	}, nil
}

func (e *Editor) ask(field editorField) (string, error) {
	for {
		fmt.Fprint(e.out, field.prompt)
		if !e.in.Scan() {
			if err := e.in.Err(); err != nil {
				return "", fmt.Errorf("read input: %w", err)
			}
			return "", fmt.Errorf("input closed")
		}
		value := strings.TrimSpace(e.in.Text())
		if field.required && value == "" {
			fmt.Fprintln(e.out, ui.Warn.Render("Required, try again."))
			continue
		}
		if field.numeric && value != "" {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || v < 0 {
				fmt.Fprintln(e.out, ui.Warn.Render("Invalid, try again."))
				continue
			}
		}
		return value, nil
	}
}

// Append validates rec against view and writes it to path as one buffered
// append of a single complete CSV line. The header is written first when the
// file is missing or empty. Bytes already in the file are never rewritten.
func (e *Editor) Append(ctx context.Context, path string, view domain.RowView, rec domain.Record) (domain.Part, domain.Result, error) {
	res, err := e.engine.Evaluate(ctx, view, rec)
	if err != nil {
		return domain.Part{}, domain.Result{}, fmt.Errorf("validate part: %w", err)
	}
	if res.HasBlocking() {
		return domain.Part{}, res, domain.CatalogFormatError{Line: rec.Line, Reason: blockingReason(res)}
	}

	var buf bytes.Buffer
	size, err := fileSize(path)
	if err != nil {
		return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
	}
	if size > 0 {
		terminated, err := endsWithNewline(path, size)
		if err != nil {
			return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
		}
		if !terminated {
			buf.WriteByte('\n')
		}
	}

	w := csv.NewWriter(&buf)
	if size == 0 {
		if err := w.Write(Columns); err != nil {
			return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
		}
	}
	part := partFromRecord(rec)
	if err := w.Write(rowFields(part)); err != nil {
		return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return domain.Part{}, res, domain.WriteError{Path: path, Err: err}
	}

	e.logger.Info("part appended",
		zap.String("path", path),
		zap.String("category", part.Category),
		zap.String("part", part.Label()))
	return part, res, nil
}

// rowFields orders a part's fields per Columns, canonicalizing numerics.
func rowFields(p domain.Part) []string {
	return []string{
		p.Category,
		p.Brand,
		p.Model,
		p.Variant,
		strconv.FormatFloat(p.WeightGrams, 'f', -1, 64),
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		p.Notes,
		p.Source,
		p.Link,
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func endsWithNewline(path string, size int64) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}
