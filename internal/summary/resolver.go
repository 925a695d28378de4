package summary

import "codecsum/internal/types"

// fieldForBatch resolves the field a matcher or metric refers to on one
// batch. It returns ok=false when the batch has no usable entry in the
// index map, when the entry is out of range, or when the resolved field's
// display name is empty (the field is not applicable to that batch).
// Callers skip the matcher/metric for that batch rather than render a
// blank label.
func fieldForBatch(batch *types.Batch, indices map[int]int) (types.Field, bool) {
	if batch == nil || indices == nil {
		return types.Field{}, false
	}
	fieldIndex, ok := indices[batch.Index]
	if !ok || fieldIndex < 0 || fieldIndex >= len(batch.Fields) {
		return types.Field{}, false
	}
	field := batch.Fields[fieldIndex]
	if field.DisplayName == "" {
		return types.Field{}, false
	}
	return field, true
}
