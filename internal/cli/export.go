package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/formatter"
	"github.com/spf13/cobra"
)

func exportCmd(s *session) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export <kind> <id>",
		Short: "Export a cached document as markdown, html, pdf or docx",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			record, err := s.agent.Coordinator.Get(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}

			doc, err := documentFromRecord(record)
			if err != nil {
				return err
			}

			return writeExport(cmd, doc, entity.ExportFormat(format), out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(entity.FormatMarkdown), "markdown, html, pdf or docx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file (default: <title><ext>)")

	return cmd
}

func exportContent(cmd *cobra.Command, title string, content entity.Content, format entity.ExportFormat, out string) error {
	doc, err := formatter.FromContent(title, content)
	if err != nil {
		return err
	}
	return writeExport(cmd, doc, format, out)
}

func writeExport(cmd *cobra.Command, doc *formatter.Document, format entity.ExportFormat, out string) error {
	f, err := formatter.NewFactory().Create(format)
	if err != nil {
		return err
	}

	data, err := f.Format(doc)
	if err != nil {
		return fmt.Errorf("format %s: %w", format, err)
	}

	path := exportDestination(out, doc.Title, f.FileExtension())
	if err := writeFile(path, data); err != nil {
		return err
	}

	printf(cmd.ErrOrStderr(), "%s Exported %s\n", okMark, path)
	return nil
}

// printContent writes the markdown rendition to stdout
func printContent(cmd *cobra.Command, title string, content entity.Content) error {
	doc, err := formatter.FromContent(title, content)
	if err != nil {
		return err
	}
	data, err := formatter.NewMarkdownFormatter().Format(doc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// documentFromRecord lays out a cached record according to its kind's payload
func documentFromRecord(record *entity.CacheRecord) (*formatter.Document, error) {
	payload, err := entity.NewPayload(record.Kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(record.Payload, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
	}

	switch p := payload.(type) {
	case *entity.ResolutionPayload:
		if p.Content == nil {
			return formatter.FromText(p.Title, ""), nil
		}
		doc, err := formatter.FromContent(p.Title, p.Content)
		if err != nil {
			return nil, err
		}
		doc.Subtitle = strings.Join(nonEmpty(p.Committee, p.Country, p.Topic), " | ")
		return doc, nil
	case *entity.SpeechPayload:
		return formatter.FromText(p.Title, p.Content), nil
	case *entity.NotePayload:
		return formatter.FromText(p.Title, p.Content), nil
	case *entity.TemplatePayload:
		doc := formatter.FromText(p.Title, templateBody(p.Content))
		doc.Subtitle = string(p.Type)
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidKind, record.Kind)
	}
}

// templateBody renders a template's free-form content: a JSON string as-is, anything else indented
func templateBody(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
