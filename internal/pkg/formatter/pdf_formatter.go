package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	pdfFontName = "DejaVuSans"

	// checked in order: next to the binary, then from the repository root
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"

	pdfIndentStep = 7.0
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func resolveFontPath() string {
	for _, p := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// pdfWriter keeps the font family and the text translation chosen for one document
type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

func (pf *PDFFormatter) Format(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, font: "Arial", tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		w.font = pdfFontName
		w.tr = func(s string) string { return s }
	}

	pdf.SetFont(w.font, "B", 18)
	pdf.MultiCell(0, 9, w.tr(doc.Title), "", "C", false)
	if doc.Subtitle != "" {
		pdf.SetFont(w.font, "", 12)
		pdf.MultiCell(0, 7, w.tr(doc.Subtitle), "", "C", false)
	}
	pdf.Ln(4)

	for _, s := range doc.Sections {
		if s.Heading != "" {
			pdf.SetFont(w.font, "B", 14)
			pdf.MultiCell(0, 8, w.tr(s.Heading), "", "", false)
			pdf.Ln(2)
		}

		pdf.SetFont(w.font, "", 12)
		_, lineHeight := pdf.GetFontSize()
		for _, p := range s.Paragraphs {
			pdf.MultiCell(0, lineHeight*1.5, w.tr(p), "", "", false)
			pdf.Ln(2)
		}
		w.items(s.Items, 0, lineHeight*1.5)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) items(items []Item, depth int, lineHeight float64) {
	left, _, _, _ := w.pdf.GetMargins()
	for _, it := range items {
		text := it.Text
		if it.Label != "" {
			text = it.Label + " " + text
		}
		w.pdf.SetX(left + float64(depth)*pdfIndentStep)
		w.pdf.MultiCell(0, lineHeight, w.tr(text), "", "", false)
		w.items(it.Children, depth+1, lineHeight)
	}
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
