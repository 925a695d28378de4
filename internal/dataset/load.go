// Package dataset loads measured batch files and builds the immutable
// comparison snapshot the summary composer consumes: it applies filters,
// matches data points across batches on the pinned dimensions, and
// accumulates the per-metric statistics.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FieldSpec describes one measurement column in a batch file.
type FieldSpec struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// RawBatch is one batch file as loaded from disk, before filtering and
// matching. LoadID tags the load for log correlation.
type RawBatch struct {
	LoadID string
	Path   string
	Name   string      `json:"name"`
	Fields []FieldSpec `json:"fields"`
	Rows   [][]any     `json:"rows"`
}

// LoadBatch reads and decodes a single batch JSON file.
func LoadBatch(path string) (*RawBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", path, err)
	}
	raw := &RawBatch{}
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("batch file %s has no name", path)
	}
	for _, row := range raw.Rows {
		if len(row) != len(raw.Fields) {
			return nil, fmt.Errorf("batch file %s: row width %d does not match %d fields",
				path, len(row), len(raw.Fields))
		}
	}
	raw.LoadID = uuid.NewString()
	raw.Path = path
	return raw, nil
}

// LoadBatches loads all batch files concurrently, preserving input order.
func LoadBatches(ctx context.Context, paths []string, logger *zap.Logger) ([]*RawBatch, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	batches := make([]*RawBatch, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := LoadBatch(path)
			if err != nil {
				return err
			}
			logger.Debug("Loaded batch",
				zap.String("load_id", raw.LoadID),
				zap.String("path", path),
				zap.String("name", raw.Name),
				zap.Int("fields", len(raw.Fields)),
				zap.Int("rows", len(raw.Rows)))
			batches[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}
