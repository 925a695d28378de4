package summary

import "strings"

// Fragment is one piece of rendered text. BatchIndex is the index of the
// batch the fragment names, or -1 for plain text; hosts use it to wire
// batch-info requests to rendered batch names without re-parsing the text.
type Fragment struct {
	Text       string
	BatchIndex int
}

// Paragraph is an ordered run of fragments laid out as one block.
type Paragraph struct {
	Fragments []Fragment
}

func (p Paragraph) text(fn func(f Fragment) string) string {
	var sb strings.Builder
	for _, f := range p.Fragments {
		sb.WriteString(fn(f))
	}
	return sb.String()
}

// Empty reports whether the paragraph contains no visible text.
func (p Paragraph) Empty() bool {
	for _, f := range p.Fragments {
		if f.Text != "" {
			return false
		}
	}
	return true
}

func plain(text string) Fragment {
	return Fragment{Text: text, BatchIndex: -1}
}

// Summary is the rendered comparison sentence, grouped the way consumers
// lay it out: the matcher preamble, the reference clause, and one ordered
// paragraph per displayed batch. Consumers needing plain text use String;
// consumers that want to decorate batch names walk the fragments.
type Summary struct {
	MatcherClause   Paragraph
	ReferenceClause Paragraph
	BatchParagraphs []Paragraph
}

// String flattens the summary to plain text, one block per paragraph.
func (s *Summary) String() string {
	return s.Render(func(f Fragment) string { return f.Text })
}

// Render flattens the summary, passing every fragment through fn so hosts
// can style fragments (for example, emphasize batch names) in place.
func (s *Summary) Render(fn func(f Fragment) string) string {
	var blocks []string
	if !s.MatcherClause.Empty() {
		blocks = append(blocks, s.MatcherClause.text(fn))
	}
	if !s.ReferenceClause.Empty() {
		blocks = append(blocks, s.ReferenceClause.text(fn))
	}
	for _, p := range s.BatchParagraphs {
		if !p.Empty() {
			blocks = append(blocks, p.text(fn))
		}
	}
	return strings.Join(blocks, "\n")
}
