package formatter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	writeMarkdown(&buf, doc)
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

func writeMarkdown(buf *bytes.Buffer, doc *Document) {
	fmt.Fprintf(buf, "# %s\n\n", doc.Title)
	if doc.Subtitle != "" {
		fmt.Fprintf(buf, "_%s_\n\n", doc.Subtitle)
	}

	for _, s := range doc.Sections {
		if s.Heading != "" {
			fmt.Fprintf(buf, "## %s\n\n", s.Heading)
		}
		for _, p := range s.Paragraphs {
			fmt.Fprintf(buf, "%s\n\n", p)
		}
		if len(s.Items) > 0 {
			writeMarkdownItems(buf, s.Items, 0)
			buf.WriteString("\n")
		}
	}
}

func writeMarkdownItems(buf *bytes.Buffer, items []Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		if it.Label != "" {
			fmt.Fprintf(buf, "%s- **%s** %s\n", indent, it.Label, it.Text)
		} else {
			fmt.Fprintf(buf, "%s- %s\n", indent, it.Text)
		}
		writeMarkdownItems(buf, it.Children, depth+1)
	}
}
