package summary

import (
	"fmt"

	"codecsum/internal/types"
)

// The per-field phrase rules live in mapping data rather than scattered
// conditionals so they can be audited and tested in isolation.

// absolutePhrases formats one batch's absolute mean for a metric.
// The %s placeholder receives the mean formatted to 2 decimals.
var absolutePhrases = map[types.FieldId]string{
	types.FieldEncodedSize:         "weigh %s bytes",
	types.FieldEncodingDuration:    "take %s seconds to encode",
	types.FieldDecodingDuration:    "take %s seconds to decode",
	types.FieldRawDecodingDuration: "take %s seconds to decode (exclusive of color conversion)",
}

// equalPhrases covers relative ratios of exactly 1. Decode-duration
// equality is phrased with "slow" where encode uses "fast"; the asymmetry
// is an intentional convention carried over as-is.
var equalPhrases = map[types.FieldId]string{
	types.FieldEncodedSize:         "as big",
	types.FieldEncodedBitsPerPixel: "as big",
	types.FieldEncodingDuration:    "as fast to encode",
	types.FieldDecodingDuration:    "as slow to decode",
	types.FieldRawDecodingDuration: "as slow to decode (exclusive of color conversion)",
}

// ratioPhrase holds the two directional templates for one field identity.
// below applies when the ratio is under 1 (the displayed magnitude is the
// reciprocal), above when it is over 1.
type ratioPhrase struct {
	below string
	above string
}

var ratioPhrases = map[types.FieldId]ratioPhrase{
	types.FieldEncodedSize:         {"%s times smaller", "%s times bigger"},
	types.FieldEncodedBitsPerPixel: {"%s times smaller", "%s times bigger"},
	types.FieldEncodingDuration:    {"%s times faster to encode", "%s times slower to encode"},
	types.FieldDecodingDuration:    {"%s times faster to decode", "%s times slower to decode"},
	types.FieldRawDecodingDuration: {
		"%s times faster to decode (exclusive of color conversion)",
		"%s times slower to decode (exclusive of color conversion)",
	},
}

// absoluteClause renders one computed absolute mean as an English clause,
// e.g. "weigh 1234.56 bytes" or "result in 38.21dB as PSNR".
func absoluteClause(field types.Field, stats types.FieldMetricStats) string {
	mean := fmt.Sprintf("%.2f", stats.AbsoluteMean())
	if phrase, ok := absolutePhrases[field.Id]; ok {
		return fmt.Sprintf(phrase, mean)
	}
	return fmt.Sprintf("result in %s%s as %s", mean, field.Unit, field.DisplayName)
}

// relativeClause renders the ratio of one batch's mean to the reference
// batch's mean. A ratio of exactly 1 uses the field's "equal" phrase.
// Otherwise the displayed magnitude is the ratio or its reciprocal so it
// always reads as "x.xx times <direction>".
func relativeClause(field types.Field, stats types.FieldMetricStats, geometric bool) string {
	ratio := stats.RelativeMean(geometric)
	if ratio == 1 {
		if phrase, ok := equalPhrases[field.Id]; ok {
			return phrase
		}
		return "of the same " + field.DisplayName
	}

	neg := ratio < 1
	magnitude := ratio
	if neg {
		magnitude = 1 / ratio
	}
	times := fmt.Sprintf("%.2f", magnitude)

	if phrase, ok := ratioPhrases[field.Id]; ok {
		if neg {
			return fmt.Sprintf(phrase.below, times)
		}
		return fmt.Sprintf(phrase.above, times)
	}
	direction := "higher"
	if neg {
		direction = "lower"
	}
	return fmt.Sprintf("%s times %s on the %s scale", times, direction, field.DisplayName)
}
