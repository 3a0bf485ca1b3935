// Package selector builds scenario picks from the catalog: interactively,
// from a declarative mapping file, or by cloning a prior scenario.
package selector

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseMappingFile reads a declarative scenario file mapping category names
// to part queries. Files ending in .json hold a flat JSON object; anything
// else is parsed as `category: query` lines with # comments. Both syntaxes
// yield the same mapping.
func ParseMappingFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var mapping map[string]string
		if err := json.Unmarshal(data, &mapping); err != nil {
			return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
		}
		return mapping, nil
	}
	mapping, err := parseSimpleMapping(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	return mapping, nil
}

// parseSimpleMapping handles the single-level YAML subset: one
// `key: value` per line, blank lines and # comments ignored, values
// optionally quoted.
func parseSimpleMapping(r io.Reader) (map[string]string, error) {
	scanner := bufio.NewScanner(r)
	mapping := make(map[string]string)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx == -1 {
			return nil, fmt.Errorf("line %d: missing ':' delimiter in %q", lineNum, line)
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNum)
		}
		mapping[key] = normalizeScalar(strings.TrimSpace(line[idx+1:]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mapping, nil
}

// normalizeScalar strips a single level of surrounding quotes.
func normalizeScalar(value string) string {
	if len(value) < 2 {
		return value
	}
	if value[0] == '"' && value[len(value)-1] == '"' {
		if unquoted, err := strconv.Unquote(value); err == nil {
			return unquoted
		}
		return strings.TrimSuffix(strings.TrimPrefix(value, `"`), `"`)
	}
	if value[0] == '\'' && value[len(value)-1] == '\'' {
		inner := value[1 : len(value)-1]
		return strings.ReplaceAll(inner, "''", "'")
	}
	return value
}
