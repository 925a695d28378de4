package summary

import (
	"strings"

	"codecsum/internal/types"
)

// filterClause renders the filters applied to a batch selection as a short
// parenthesized clause, e.g. " (quality in [75:95], width ≥ 512)".
// Only filters that are enabled and actually exclude at least one data
// point appear; everything surviving is joined in declaration order.
// Returns the empty string when no filter qualifies.
func filterClause(selection *types.BatchSelection) string {
	var parts []string
	for _, f := range selection.Filters {
		if f.Filter.Enabled && f.Filter.ActuallyFiltersPointsOut {
			parts = append(parts, f.Filter.Description)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
