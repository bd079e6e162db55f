package formatter

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
)

const (
	htmlContentType   = "text/html; charset=utf-8"
	htmlFileExtension = ".html"
)

// HTMLFormatter renders the markdown layout to a standalone page
type HTMLFormatter struct {
	md goldmark.Markdown
}

func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{md: goldmark.New()}
}

func (hf *HTMLFormatter) Format(doc *Document) ([]byte, error) {
	var src bytes.Buffer
	writeMarkdown(&src, doc)

	var body bytes.Buffer
	if err := hf.md.Convert(src.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(doc.Title))
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func (hf *HTMLFormatter) ContentType() string {
	return htmlContentType
}

func (hf *HTMLFormatter) FileExtension() string {
	return htmlFileExtension
}
