// Package summary turns an immutable comparison snapshot into the
// natural-language sentence describing how batches differ, absolutely or
// relative to a reference batch. Rendering is a pure, synchronous,
// single-pass transformation: the same snapshot always produces the same
// Summary, and degenerate snapshots (no matchers, no metrics, no displayed
// batches, reference out of range) degrade to smaller output rather than
// errors.
package summary

import (
	"strings"

	"codecsum/internal/types"
)

// Composer renders comparison snapshots and forwards batch-info requests
// to the host. The zero value renders fine; the batch-info capability is
// injected so the core carries no dependency on any event system.
type Composer struct {
	requestBatchInfo func(batchIndex int)
}

// Option configures a Composer.
type Option func(*Composer)

// WithBatchInfoRequests installs the callback invoked when a host reports
// user interaction with a rendered batch name. Fire-and-forget: the
// composer never waits on or reads anything back from it.
func WithBatchInfoRequests(fn func(batchIndex int)) Option {
	return func(c *Composer) { c.requestBatchInfo = fn }
}

// NewComposer creates a Composer.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestBatchInfo forwards a batch-info request for the batch named by a
// rendered fragment. No-op when no callback was installed.
func (c *Composer) RequestBatchInfo(batchIndex int) {
	if c.requestBatchInfo != nil {
		c.requestBatchInfo(batchIndex)
	}
}

// RenderSummary renders the full multi-batch summary for one snapshot.
func (c *Composer) RenderSummary(state *types.State) *Summary {
	s := &Summary{}

	refIndex := state.ReferenceBatchSelectionIndex
	refValid := refIndex >= 0 && refIndex < len(state.BatchSelections)

	displayed := displayedSelections(state, refIndex, refValid)

	var enabledMetrics []int
	for i, m := range state.Metrics {
		if m.Enabled {
			enabledMetrics = append(enabledMetrics, i)
		}
	}

	if state.RDMode {
		// RD mode suppresses matcher and reference narration entirely.
		s.ReferenceClause = Paragraph{Fragments: []Fragment{plain("On average,")}}
	} else {
		s.MatcherClause = matcherClause(state)
		s.ReferenceClause = referenceClause(state, refValid)
	}

	lastRendered := -1
	for _, selIndex := range displayed {
		sel := state.BatchSelections[selIndex]
		p, rendered := batchParagraph(state, sel, enabledMetrics)
		s.BatchParagraphs = append(s.BatchParagraphs, p)
		if rendered {
			lastRendered = len(s.BatchParagraphs) - 1
		}
	}
	// The sentence-final period goes on the last metric clause that
	// actually rendered, wherever it lives: a trailing batch whose metrics
	// all turned out unresolvable must not swallow the terminator.
	if lastRendered >= 0 {
		terminateParagraph(&s.BatchParagraphs[lastRendered])
	}
	return s
}

// terminateParagraph swaps the trailing "," of a paragraph's final clause
// for the sentence-final ".".
func terminateParagraph(p *Paragraph) {
	last := len(p.Fragments) - 1
	text := p.Fragments[last].Text
	if strings.HasSuffix(text, ",") {
		p.Fragments[last].Text = strings.TrimSuffix(text, ",") + "."
	}
}

// RenderSummary renders a snapshot with a default Composer. Convenience
// for hosts that never wire batch-info requests.
func RenderSummary(state *types.State) *Summary {
	return NewComposer().RenderSummary(state)
}

// displayedSelections returns the indices of batch selections that get a
// paragraph: in relative mode the reference itself is skipped, and a
// selection must be displayable and have at least one matched data point.
func displayedSelections(state *types.State, refIndex int, refValid bool) []int {
	var displayed []int
	for i, sel := range state.BatchSelections {
		if state.ShowRelativeRatios && refValid && i == refIndex {
			continue
		}
		if !sel.IsDisplayed || sel.MatchedDataPoints == 0 {
			continue
		}
		displayed = append(displayed, i)
	}
	return displayed
}

// referenceClause builds the clause between the matcher preamble and the
// batch paragraphs: "compared to <reference><filters>," in relative mode,
// "on average," in absolute mode. Relative mode without a valid reference
// renders nothing.
func referenceClause(state *types.State, refValid bool) Paragraph {
	if !state.ShowRelativeRatios {
		return Paragraph{Fragments: []Fragment{plain("on average,")}}
	}
	if !refValid {
		return Paragraph{}
	}
	ref := state.BatchSelections[state.ReferenceBatchSelectionIndex]
	return Paragraph{Fragments: []Fragment{
		plain("compared to "),
		{Text: ref.Batch.Name, BatchIndex: ref.Batch.Index},
		plain(filterClause(ref) + ","),
	}}
}

// batchParagraph renders one displayed batch: its name, its filter clause,
// and one line per enabled metric, each ending with ",". The " files "
// connector only appears once at least one metric clause resolved, so a
// batch whose enabled metrics are all inapplicable renders just its name.
// Returns whether any metric clause rendered; the caller turns the final
// rendered clause's "," into the sentence-final ".".
func batchParagraph(state *types.State, sel *types.BatchSelection, enabledMetrics []int) (Paragraph, bool) {
	var clauses []string
	for _, metricIndex := range enabledMetrics {
		field, ok := fieldForBatch(sel.Batch, state.Metrics[metricIndex].FieldIndices)
		if !ok || metricIndex >= len(sel.Stats) || sel.Stats[metricIndex] == nil {
			continue
		}
		stats := sel.Stats[metricIndex]
		if state.ShowRelativeRatios {
			clauses = append(clauses, relativeClause(field, stats, state.UseGeometricMean))
		} else {
			clauses = append(clauses, absoluteClause(field, stats))
		}
	}

	var p Paragraph
	p.Fragments = append(p.Fragments, Fragment{Text: sel.Batch.Name, BatchIndex: sel.Batch.Index})

	connector := filterClause(sel)
	if len(clauses) > 0 {
		connector += " files "
		if state.ShowRelativeRatios {
			connector += "are "
		}
	}
	p.Fragments = append(p.Fragments, plain(connector))

	for i, clause := range clauses {
		separator := ""
		if i > 0 {
			separator = "\n"
		}
		p.Fragments = append(p.Fragments, plain(separator+clause+","))
	}
	return p, len(clauses) > 0
}
