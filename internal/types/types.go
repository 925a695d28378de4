// Package types provides the shared comparison data model used across
// codecsum packages. Everything here is an immutable snapshot: the dataset
// pipeline constructs these values and the summary composer only reads them.
// A new State fully replaces the old one whenever upstream recomputation
// (filtering/matching) completes; nothing is patched in place.
package types

import "strings"

// FieldId identifies a logical measurement column independently of which
// position the column occupies in a particular batch.
type FieldId int

const (
	// FieldCustom covers columns codecsum has no special vocabulary for.
	FieldCustom FieldId = iota
	FieldBatchName
	FieldCodecName
	FieldSourceImageName
	FieldWidth
	FieldHeight
	FieldFrameCount
	FieldEffort
	FieldQuality
	FieldPsnr
	FieldSsim
	FieldDssim
	FieldMsssim
	FieldButteraugli
	FieldVmaf
	FieldCiede2000
	FieldEncodedSize
	FieldEncodedBitsPerPixel
	FieldEncodingDuration
	FieldDecodingDuration
	FieldRawDecodingDuration
	FieldMegapixels
	FieldLossless
)

var fieldIdNames = map[FieldId]string{
	FieldCustom:              "custom",
	FieldBatchName:           "batch_name",
	FieldCodecName:           "codec_name",
	FieldSourceImageName:     "source_image_name",
	FieldWidth:               "width",
	FieldHeight:              "height",
	FieldFrameCount:          "frame_count",
	FieldEffort:              "effort",
	FieldQuality:             "quality",
	FieldPsnr:                "psnr",
	FieldSsim:                "ssim",
	FieldDssim:               "dssim",
	FieldMsssim:              "msssim",
	FieldButteraugli:         "butteraugli",
	FieldVmaf:                "vmaf",
	FieldCiede2000:           "ciede2000",
	FieldEncodedSize:         "encoded_size",
	FieldEncodedBitsPerPixel: "encoded_bits_per_pixel",
	FieldEncodingDuration:    "encoding_duration",
	FieldDecodingDuration:    "decoding_duration",
	FieldRawDecodingDuration: "raw_decoding_duration",
	FieldMegapixels:          "megapixels",
	FieldLossless:            "lossless",
}

var fieldIdsByName = func() map[string]FieldId {
	m := make(map[string]FieldId, len(fieldIdNames))
	for id, name := range fieldIdNames {
		m[name] = id
	}
	return m
}()

// String returns the stable snake_case name used in batch files and configs.
func (id FieldId) String() string {
	if name, ok := fieldIdNames[id]; ok {
		return name
	}
	return "custom"
}

// ParseFieldId maps a batch-file or config identifier to a FieldId.
// Unknown identifiers resolve to FieldCustom rather than failing: a batch
// may carry columns codecsum has no vocabulary for, and those still need
// to round-trip through matching and generic phrasing.
func ParseFieldId(s string) FieldId {
	if id, ok := fieldIdsByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return id
	}
	return FieldCustom
}

// IsDistortion reports whether the field is one of the distortion metric
// identities (PSNR, SSIM, DSSIM, MS-SSIM, Butteraugli, VMAF, CIEDE2000).
func (id FieldId) IsDistortion() bool {
	switch id {
	case FieldPsnr, FieldSsim, FieldDssim, FieldMsssim,
		FieldButteraugli, FieldVmaf, FieldCiede2000:
		return true
	}
	return false
}

// Field is one named, typed measurement column owned by a Batch.
// An empty DisplayName means the field is not applicable for that batch;
// consumers must skip it rather than render a blank label.
type Field struct {
	Id          FieldId
	DisplayName string
	Unit        string
}

// Batch is one benchmarked configuration. Index is its stable identity for
// matcher/metric lookup and for batch-info requests from rendered output.
type Batch struct {
	Index  int
	Name   string
	Fields []Field
}

// Matcher is a logical dimension the user pinned to be identical across
// compared batches. FieldIndices maps each batch index to the field index
// realizing that dimension in that batch; a batch with no usable entry is
// simply inert for this matcher. Tolerance 0 requires exact matches,
// a fractional value allows a ± percentage band.
type Matcher struct {
	FieldIndices map[int]int
	Enabled      bool
	Tolerance    float64
}

// Metric is a logical quantity reported per batch, resolved per batch the
// same way a Matcher is.
type Metric struct {
	FieldIndices map[int]int
	Enabled      bool
}

// FieldFilter narrows which data points of one field are considered.
// Description is the human-readable clause rendered in summaries.
// ActuallyFiltersPointsOut records whether the predicate excluded at least
// one data point; an enabled but vacuous filter produces no clause.
type FieldFilter struct {
	Enabled                  bool
	Description              string
	ActuallyFiltersPointsOut bool
}

// FieldFilterWithIndex ties a filter to the field it applies to.
type FieldFilterWithIndex struct {
	Filter     FieldFilter
	FieldIndex int
}

// FieldMetricStats is the precomputed aggregate for one metric on one
// batch. RelativeMean is the mean ratio of the batch's values to the
// reference batch's values, arithmetic or geometric per the flag.
type FieldMetricStats interface {
	AbsoluteMean() float64
	RelativeMean(geometric bool) float64
}

// BatchSelection is a batch plus everything the composer needs about it:
// its resolved filters, how many data points survived filtering and
// matching, whether the host wants it displayed, and its per-metric stats
// (index-aligned with State.Metrics).
type BatchSelection struct {
	Batch             *Batch
	Filters           []FieldFilterWithIndex
	MatchedDataPoints int
	IsDisplayed       bool
	Stats             []FieldMetricStats
}

// State is the root read-only view of one comparison.
// ReferenceBatchSelectionIndex may be out of range or -1, meaning no
// reference batch; that is a valid state, not an error.
type State struct {
	Batches                      []*Batch
	Matchers                     []*Matcher
	Metrics                      []*Metric
	BatchSelections              []*BatchSelection
	ReferenceBatchSelectionIndex int
	ShowRelativeRatios           bool
	UseGeometricMean             bool
	RDMode                       bool
	BatchesAreLikelyLossless     bool
}

// ReferenceSelection returns the reference batch selection, or nil when
// the reference index does not point inside BatchSelections.
func (s *State) ReferenceSelection() *BatchSelection {
	if s.ReferenceBatchSelectionIndex < 0 ||
		s.ReferenceBatchSelectionIndex >= len(s.BatchSelections) {
		return nil
	}
	return s.BatchSelections[s.ReferenceBatchSelectionIndex]
}
