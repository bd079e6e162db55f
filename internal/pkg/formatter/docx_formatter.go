package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"

	docxIndentStep = 0.35 * measurement.Inch
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(doc *Document) ([]byte, error) {
	out := document.New()
	defer out.Close()

	title := out.AddParagraph()
	title.SetStyle("Title")
	title.AddRun().AddText(doc.Title)

	if doc.Subtitle != "" {
		sub := out.AddParagraph()
		sub.SetStyle("Subtitle")
		sub.AddRun().AddText(doc.Subtitle)
	}

	for _, s := range doc.Sections {
		if s.Heading != "" {
			h := out.AddParagraph()
			h.SetStyle("Heading1")
			h.AddRun().AddText(s.Heading)
		}
		for _, p := range s.Paragraphs {
			out.AddParagraph().AddRun().AddText(p)
		}
		addDOCXItems(out, s.Items, 0)
	}

	var buf bytes.Buffer
	if err := out.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addDOCXItems(out *document.Document, items []Item, depth int) {
	for _, it := range items {
		para := out.AddParagraph()
		para.Properties().SetStartIndent(measurement.Distance(depth+1) * docxIndentStep)

		if it.Label != "" {
			label := para.AddRun()
			label.Properties().SetBold(true)
			label.AddText(it.Label + " ")
		}
		para.AddRun().AddText(it.Text)

		addDOCXItems(out, it.Children, depth+1)
	}
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
