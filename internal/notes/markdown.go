package notes

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a Markdown heading with its byte range in the source.
// Start is the beginning of the heading line; End is the end of the
// heading text.
type Heading struct {
	Level int
	Title string
	Start int
	End   int
}

var markdown = goldmark.New()

// ParseHeadings returns all headings in document order
func ParseHeadings(source []byte) []Heading {
	doc := markdown.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		seg := h.Lines().At(0)
		lineStart := seg.Start
		for lineStart > 0 && source[lineStart-1] != '\n' {
			lineStart--
		}

		headings = append(headings, Heading{
			Level: h.Level,
			Title: headingText(h, source),
			Start: lineStart,
			End:   seg.Stop,
		})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

func headingText(h *ast.Heading, source []byte) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(sb.String())
}

// ExtractMarkdownSection returns the section whose heading contains title
// (case-insensitive). The section runs from its heading line to the next
// heading of the same or higher level. Returns false when no heading
// matches.
func ExtractMarkdownSection(source []byte, title string) (string, bool) {
	titleLower := strings.ToLower(title)
	headings := ParseHeadings(source)

	for i, h := range headings {
		if !strings.Contains(strings.ToLower(h.Title), titleLower) {
			continue
		}

		end := len(source)
		for _, next := range headings[i+1:] {
			if next.Level <= h.Level {
				end = next.Start
				break
			}
		}

		return strings.TrimSpace(string(source[h.Start:end])), true
	}

	return "", false
}

// ExtractAllSections splits the document into its level-2 sections,
// keyed by heading title in document order
func ExtractAllSections(source []byte) []struct {
	Title   string
	Content string
} {
	headings := ParseHeadings(source)

	var sections []struct {
		Title   string
		Content string
	}
	for i, h := range headings {
		if h.Level != 2 {
			continue
		}
		end := len(source)
		for _, next := range headings[i+1:] {
			if next.Level <= 2 {
				end = next.Start
				break
			}
		}
		sections = append(sections, struct {
			Title   string
			Content string
		}{Title: h.Title, Content: strings.TrimSpace(string(source[h.Start:end]))})
	}

	return sections
}
