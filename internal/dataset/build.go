package dataset

import (
	"fmt"
	"slices"
	"strings"

	"codecsum/internal/config"
	"codecsum/internal/events"
	"codecsum/internal/stats"
	"codecsum/internal/types"

	"go.uber.org/zap"
)

// Builder rebuilds comparison snapshots from loaded batches. Each Build
// produces a fresh immutable State and fires one matched-data-points
// notification on the bus; nothing is patched incrementally.
type Builder struct {
	cfg    *config.Config
	bus    *events.Bus
	logger *zap.Logger
}

// NewBuilder creates a Builder. bus may be nil when no host subscribes.
func NewBuilder(cfg *config.Config, bus *events.Bus, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cfg: cfg, bus: bus, logger: logger}
}

// Build assembles the full comparison snapshot: batches, matchers,
// metrics, filtered and matched batch selections, and per-metric stats.
func (b *Builder) Build(raw []*RawBatch) *types.State {
	state := &types.State{
		ShowRelativeRatios: b.cfg.Display.RelativeRatios,
		UseGeometricMean:   b.cfg.Display.GeometricMean,
		RDMode:             b.cfg.Display.RDMode,
	}

	for i, rb := range raw {
		batch := &types.Batch{Index: i, Name: rb.Name}
		for _, fs := range rb.Fields {
			batch.Fields = append(batch.Fields, types.Field{
				Id:          types.ParseFieldId(fs.Id),
				DisplayName: fs.Name,
				Unit:        fs.Unit,
			})
		}
		state.Batches = append(state.Batches, batch)
	}

	for _, mc := range b.cfg.Matchers {
		state.Matchers = append(state.Matchers, &types.Matcher{
			FieldIndices: fieldIndices(state.Batches, mc.Field),
			Enabled:      mc.Enabled,
			Tolerance:    mc.Tolerance,
		})
	}
	for _, mc := range b.cfg.Metrics {
		state.Metrics = append(state.Metrics, &types.Metric{
			FieldIndices: fieldIndices(state.Batches, mc.Field),
			Enabled:      mc.Enabled,
		})
	}

	state.ReferenceBatchSelectionIndex = b.referenceIndex(state.Batches)
	state.BatchesAreLikelyLossless = b.likelyLossless(state.Batches, raw)

	// Filters and the rows surviving them, per batch.
	filtered := make([][][]any, len(raw))
	for i, batch := range state.Batches {
		sel := &types.BatchSelection{
			Batch:       batch,
			IsDisplayed: !slices.Contains(b.cfg.Display.HideBatches, batch.Name),
		}
		sel.Filters, filtered[i] = b.applyFilters(batch, raw[i])
		state.BatchSelections = append(state.BatchSelections, sel)
	}

	refValid := state.ReferenceSelection() != nil
	for i, sel := range state.BatchSelections {
		var pairs [][2][]any
		if refValid {
			pairs = b.matchRows(state, i, filtered)
		} else {
			for _, row := range filtered[i] {
				pairs = append(pairs, [2][]any{row, nil})
			}
		}
		sel.MatchedDataPoints = len(pairs)
		sel.Stats = b.metricStats(state, i, pairs)
		b.logger.Debug("Matched batch data points",
			zap.String("batch", sel.Batch.Name),
			zap.Int("filtered", len(filtered[i])),
			zap.Int("matched", sel.MatchedDataPoints))
	}

	if b.bus != nil {
		b.bus.NotifyMatchedDataPointsChanged()
	}
	return state
}

// fieldIndices maps each batch index to the index of the named field in
// that batch. Batches lacking the field get no entry; the summary core
// treats the matcher or metric as inert for them.
func fieldIndices(batches []*types.Batch, fieldName string) map[int]int {
	id := types.ParseFieldId(fieldName)
	indices := make(map[int]int)
	for _, batch := range batches {
		for fi, f := range batch.Fields {
			if f.Id == id && f.Id != types.FieldCustom {
				indices[batch.Index] = fi
				break
			}
		}
	}
	return indices
}

// referenceIndex resolves the configured reference batch name to a batch
// selection index. Empty defaults to the first batch; an unknown name
// yields -1 (no reference).
func (b *Builder) referenceIndex(batches []*types.Batch) int {
	name := b.cfg.Display.ReferenceBatch
	if name == "" {
		if len(batches) == 0 {
			return -1
		}
		return 0
	}
	for i, batch := range batches {
		if batch.Name == name {
			return i
		}
	}
	b.logger.Warn("Reference batch not found", zap.String("name", name))
	return -1
}

// applyFilters evaluates the configured filters against one batch and
// returns the filter descriptors plus the rows surviving every enabled
// filter.
func (b *Builder) applyFilters(batch *types.Batch, raw *RawBatch) ([]types.FieldFilterWithIndex, [][]any) {
	keep := make([]bool, len(raw.Rows))
	for i := range keep {
		keep[i] = true
	}

	var filters []types.FieldFilterWithIndex
	for _, fc := range b.cfg.Filters {
		if fc.Batch != "" && fc.Batch != batch.Name {
			continue
		}
		id := types.ParseFieldId(fc.Field)
		fieldIndex := -1
		for fi, f := range batch.Fields {
			if f.Id == id && f.Id != types.FieldCustom {
				fieldIndex = fi
				break
			}
		}
		if fieldIndex < 0 {
			continue
		}

		excluded := 0
		if fc.Enabled {
			for ri, row := range raw.Rows {
				if !keep[ri] {
					continue
				}
				v, ok := numericValue(row[fieldIndex])
				if !ok || !inRange(v, fc.Min, fc.Max) {
					keep[ri] = false
					excluded++
				}
			}
		}

		filters = append(filters, types.FieldFilterWithIndex{
			FieldIndex: fieldIndex,
			Filter: types.FieldFilter{
				Enabled:                  fc.Enabled,
				Description:              filterDescription(batch.Fields[fieldIndex], fc),
				ActuallyFiltersPointsOut: excluded > 0,
			},
		})
	}

	var rows [][]any
	for ri, row := range raw.Rows {
		if keep[ri] {
			rows = append(rows, row)
		}
	}
	return filters, rows
}

func inRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func filterDescription(field types.Field, fc config.FilterConfig) string {
	name := field.DisplayName
	switch {
	case fc.Min != nil && fc.Max != nil:
		return fmt.Sprintf("%s in [%v:%v]", name, *fc.Min, *fc.Max)
	case fc.Min != nil:
		return fmt.Sprintf("%s ≥ %v", name, *fc.Min)
	case fc.Max != nil:
		return fmt.Sprintf("%s ≤ %v", name, *fc.Max)
	}
	return name
}

// matchRows pairs each of a batch's filtered rows with a reference batch
// row agreeing on every enabled matcher field. The reference batch pairs
// each row with itself. With no enabled matcher, rows pair positionally.
func (b *Builder) matchRows(state *types.State, selIndex int, filtered [][][]any) [][2][]any {
	refIndex := state.ReferenceBatchSelectionIndex
	rows := filtered[selIndex]
	refRows := filtered[refIndex]

	var pairs [][2][]any
	if selIndex == refIndex {
		for _, row := range rows {
			pairs = append(pairs, [2][]any{row, row})
		}
		return pairs
	}

	var active []*types.Matcher
	batch := state.Batches[selIndex]
	refBatch := state.Batches[refIndex]
	for _, m := range state.Matchers {
		if !m.Enabled {
			continue
		}
		if _, ok := m.FieldIndices[batch.Index]; !ok {
			continue
		}
		if _, ok := m.FieldIndices[refBatch.Index]; !ok {
			continue
		}
		active = append(active, m)
	}

	if len(active) == 0 {
		for i := 0; i < len(rows) && i < len(refRows); i++ {
			pairs = append(pairs, [2][]any{rows[i], refRows[i]})
		}
		return pairs
	}

	for _, row := range rows {
		for _, refRow := range refRows {
			if rowsMatch(row, refRow, batch, refBatch, active) {
				pairs = append(pairs, [2][]any{row, refRow})
				break
			}
		}
	}
	return pairs
}

func rowsMatch(row, refRow []any, batch, refBatch *types.Batch, matchers []*types.Matcher) bool {
	for _, m := range matchers {
		v := row[m.FieldIndices[batch.Index]]
		ref := refRow[m.FieldIndices[refBatch.Index]]
		if !valuesMatch(v, ref, m.Tolerance) {
			return false
		}
	}
	return true
}

// valuesMatch compares two cell values under a matcher's tolerance:
// strings must be identical, numbers must fall within the ± fractional
// band around the reference value (exactly equal when tolerance is 0).
func valuesMatch(v, ref any, tolerance float64) bool {
	vs, vIsString := v.(string)
	rs, rIsString := ref.(string)
	if vIsString || rIsString {
		return vIsString && rIsString && vs == rs
	}
	vn, vOK := numericValue(v)
	rn, rOK := numericValue(ref)
	if !vOK || !rOK {
		return false
	}
	if tolerance == 0 {
		return vn == rn
	}
	diff := vn - rn
	if diff < 0 {
		diff = -diff
	}
	band := rn
	if band < 0 {
		band = -band
	}
	return diff <= tolerance*band
}

// metricStats accumulates each metric's statistics over a batch's matched
// pairs. The stats slice stays index-aligned with state.Metrics; metrics
// a batch cannot resolve get an empty accumulator rather than a gap.
func (b *Builder) metricStats(state *types.State, selIndex int, pairs [][2][]any) []types.FieldMetricStats {
	batch := state.Batches[selIndex]
	refValid := state.ReferenceSelection() != nil
	var refBatch *types.Batch
	if refValid {
		refBatch = state.Batches[state.ReferenceBatchSelectionIndex]
	}

	out := make([]types.FieldMetricStats, len(state.Metrics))
	for mi, metric := range state.Metrics {
		acc := &stats.MetricStats{}
		out[mi] = acc
		fieldIndex, ok := metric.FieldIndices[batch.Index]
		if !ok {
			continue
		}
		refFieldIndex := -1
		if refBatch != nil {
			if rfi, ok := metric.FieldIndices[refBatch.Index]; ok {
				refFieldIndex = rfi
			}
		}
		for _, pair := range pairs {
			v, ok := numericValue(pair[0][fieldIndex])
			if !ok {
				continue
			}
			refValue := 0.0
			if pair[1] != nil && refFieldIndex >= 0 {
				if rv, ok := numericValue(pair[1][refFieldIndex]); ok {
					refValue = rv
				}
			}
			acc.Add(v, refValue)
		}
	}
	return out
}

// likelyLossless reports whether every batch looks losslessly encoded:
// each carries a lossless field that is true for all rows. The config
// override wins when set.
func (b *Builder) likelyLossless(batches []*types.Batch, raw []*RawBatch) bool {
	if b.cfg.Display.LikelyLossless != nil {
		return *b.cfg.Display.LikelyLossless
	}
	if len(batches) == 0 {
		return false
	}
	for i, batch := range batches {
		fieldIndex := -1
		for fi, f := range batch.Fields {
			if f.Id == types.FieldLossless {
				fieldIndex = fi
				break
			}
		}
		if fieldIndex < 0 {
			return false
		}
		for _, row := range raw[i].Rows {
			if !truthy(row[fieldIndex]) {
				return false
			}
		}
	}
	return true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(t)
		return s == "true" || s == "1" || s == "yes"
	default:
		n, ok := numericValue(v)
		return ok && n != 0
	}
}

// numericValue extracts a float from a decoded JSON cell.
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
