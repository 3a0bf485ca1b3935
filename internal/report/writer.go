package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"buildplan/pkg/domain"
	"go.uber.org/zap"
)

// Writer persists rendered reports under a base directory, one file per
// format, named after the scenario.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter constructs a writer rooted at dir. A nil logger discards.
func NewWriter(dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the report directory.
func (w *Writer) Dir() string { return w.dir }

// Write renders and stores one report per requested format, returning the
// written paths in request order. Each file is staged to a temporary name and
// renamed into place, so a failure never leaves partial content behind.
func (w *Writer) Write(ctx context.Context, r *Renderer, s domain.Scenario, sum domain.Summary, formats ...Format) ([]string, error) {
	if err := domain.ValidateName(s.Name); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		payload, err := r.Render(format, s, sum)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		path := filepath.Join(w.dir, s.Name+"."+format.Extension())
		if err := WriteFileAtomic(path, payload); err != nil {
			return nil, domain.WriteError{Path: path, Err: err}
		}
		w.logger.Info("report written",
			zap.String("path", path),
			zap.String("format", string(format)),
			zap.Int("bytes", len(payload)))
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteFileAtomic stages payload in a temporary file in the target directory
// and renames it into place. Rename replaces any prior file.
func WriteFileAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
