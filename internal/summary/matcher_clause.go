package summary

import (
	"fmt"

	"codecsum/internal/types"
)

// matcherClause builds the opening clause listing every enabled matcher in
// declared order: "For the same X (±0.1%)\nand the same distortion (PSNR),".
// Matchers are batch-invariant by construction, so display text is derived
// from the first batch's field only.
func matcherClause(state *types.State) Paragraph {
	var p Paragraph
	if len(state.Batches) == 0 {
		return p
	}
	firstBatch := state.Batches[0]

	numEnabled := 0
	for _, m := range state.Matchers {
		if m.Enabled {
			numEnabled++
		}
	}
	if numEnabled == 0 {
		return p
	}

	// pos counts enabled matchers, whether or not they produced visible
	// text. An unresolvable matcher renders nothing but must not shift
	// which matcher counts as first or last.
	pos := 0
	for _, m := range state.Matchers {
		if !m.Enabled {
			continue
		}
		pos++
		field, ok := fieldForBatch(firstBatch, m.FieldIndices)
		if !ok {
			continue
		}

		label, subLabel := matcherLabel(field, state.BatchesAreLikelyLossless)

		tolerance := ""
		if m.Tolerance != 0 {
			tolerance = fmt.Sprintf("±%.1f%%", m.Tolerance*100)
		}

		prefix := "and the same "
		if pos == 1 {
			prefix = "For the same "
		}
		suffix := ""
		switch {
		case pos < numEnabled:
			suffix = "\n"
		case state.ShowRelativeRatios:
			// A continuation clause follows ("compared to ...").
			suffix = ","
		}

		p.Fragments = append(p.Fragments,
			plain(prefix+label+parenthetical(subLabel, tolerance)+suffix))
	}
	return p
}

// matcherLabel returns the label and optional sub-label for a matcher's
// resolved field. The source image name matcher gains an "encoded
// losslessly" sub-label only when the whole comparison is likely lossless;
// otherwise the lossy nature is implied by an accompanying distortion
// matcher and stating it would be redundant. Distortion fields are
// labeled with the literal word "distortion" and carry their own display
// name as the sub-label, e.g. "distortion (PSNR)".
func matcherLabel(field types.Field, likelyLossless bool) (label, subLabel string) {
	switch {
	case field.Id == types.FieldSourceImageName:
		label = field.DisplayName
		if likelyLossless {
			subLabel = "encoded losslessly"
		}
	case field.Id.IsDistortion():
		label = "distortion"
		subLabel = field.DisplayName
	default:
		label = field.DisplayName
	}
	return label, subLabel
}

// parenthetical combines a sub-label and a tolerance into the trailing
// " (sub tol)", " (sub)", " (tol)" form, or nothing when both are empty.
func parenthetical(subLabel, tolerance string) string {
	switch {
	case subLabel != "" && tolerance != "":
		return " (" + subLabel + " " + tolerance + ")"
	case subLabel != "":
		return " (" + subLabel + ")"
	case tolerance != "":
		return " (" + tolerance + ")"
	}
	return ""
}
