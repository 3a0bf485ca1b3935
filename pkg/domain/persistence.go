package domain

import (
	"context"
	"strings"
	"time"
)

// ValidateName rejects scenario names that cannot serve as a single path
// element: empty names, path traversal, and separator characters.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return InvalidInputError{Input: name, Reason: "scenario name must not be empty"}
	}
	if strings.Contains(trimmed, "..") {
		return InvalidInputError{Input: name, Reason: "scenario name must not contain '..'"}
	}
	if strings.ContainsAny(trimmed, `/\`) {
		return InvalidInputError{Input: name, Reason: "scenario name must not contain path separators"}
	}
	return nil
}

// ScenarioInfo describes a stored scenario without loading its payload.
type ScenarioInfo struct {
	Name    string
	SavedAt time.Time
}

// ScenarioStore is a minimal abstraction over durable scenario backends. It
// mirrors the subset of capabilities the CLI uses: save a finished scenario,
// load one by name, and find the most recent one for cloning.
type ScenarioStore interface {
	Save(ctx context.Context, s Scenario) error
	Load(ctx context.Context, name string) (Scenario, error)
	Latest(ctx context.Context) (Scenario, bool, error)
	List(ctx context.Context) ([]ScenarioInfo, error)
}
