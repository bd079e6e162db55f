package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/resomate/internal/entity"
)

type Formatter interface {
	Format(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// Document is the layout shared by every export format
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

type Section struct {
	Heading    string
	Paragraphs []string
	Items      []Item
}

// Item is a labelled line such as an operative clause. Children are rendered one level deeper.
type Item struct {
	Label    string
	Text     string
	Children []Item
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatHTML:
		return NewHTMLFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidParameter, format)
	}
}

// FromContent lays out generated content. title names the document; speeches carry their own title.
func FromContent(title string, content entity.Content) (*Document, error) {
	switch c := content.(type) {
	case *entity.ResolutionContent:
		return fromResolution(title, c), nil
	case *entity.SpeechContent:
		return fromSpeech(c), nil
	case *entity.RhetoricContent:
		return fromRhetoric(title, c), nil
	default:
		return nil, fmt.Errorf("%w: nothing to export", entity.ErrEmptyContent)
	}
}

// FromText lays out free text, one paragraph per blank-line separated block
func FromText(title, body string) *Document {
	return &Document{
		Title:    title,
		Sections: []Section{{Paragraphs: paragraphs(body)}},
	}
}

func fromResolution(title string, c *entity.ResolutionContent) *Document {
	preamble := Section{Heading: "Preambular clauses"}
	for _, p := range c.Preamble {
		text := p.Text
		if p.Type == entity.PreambleCitation && p.Citation != "" {
			text = fmt.Sprintf("%s (%s)", text, p.Citation)
		}
		preamble.Items = append(preamble.Items, Item{Text: text + ","})
	}

	operative := Section{Heading: "Operative clauses"}
	for i, o := range c.Operative {
		item := Item{Label: fmt.Sprintf("%d.", o.Number), Text: o.Text + terminator(i, len(c.Operative))}
		for _, s := range o.SubClauses {
			item.Children = append(item.Children, Item{Label: s.Letter + ")", Text: s.Text})
		}
		operative.Items = append(operative.Items, item)
	}

	return &Document{
		Title:    title,
		Sections: []Section{preamble, operative},
	}
}

func fromSpeech(c *entity.SpeechContent) *Document {
	doc := &Document{
		Title:    c.DraftSpeech.Title,
		Sections: []Section{{Paragraphs: paragraphs(c.DraftSpeech.Body)}},
	}

	if len(c.RhetoricInserts) > 0 {
		doc.Sections = append(doc.Sections, Section{
			Heading: "Rhetoric inserts",
			Items:   deviceItems(c.RhetoricInserts),
		})
	}

	return doc
}

func fromRhetoric(title string, c *entity.RhetoricContent) *Document {
	return &Document{
		Title:    title,
		Subtitle: "Rhetorical devices",
		Sections: []Section{{Items: deviceItems(c.Devices)}},
	}
}

func deviceItems(devices []entity.RhetoricDevice) []Item {
	items := make([]Item, 0, len(devices))
	for _, d := range devices {
		item := Item{Text: d.Headline}
		if d.Type != "" {
			item.Label = "[" + string(d.Type) + "]"
		}
		for _, ex := range d.Examples {
			item.Children = append(item.Children, Item{Label: "-", Text: ex})
		}
		items = append(items, item)
	}
	return items
}

// operative clauses end with a semicolon, the last one with a full stop
func terminator(i, n int) string {
	if i == n-1 {
		return "."
	}
	return ";"
}

func paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
