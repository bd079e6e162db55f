package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/validator"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	params   entity.GenerationParams
	save     bool
	jsonOut  bool
	exportAs string
	out      string
}

func generateCmd(s *session) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate <resolution|speech|rhetoric-devices>",
		Short: "Generate a document through the model cascade",
		Long: `Generate asks the primary model, then the secondary model, and finally falls back to a
built-in template. Resolutions and speeches always produce content; rhetorical devices may fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind := entity.DocumentKind(args[0])

			result, err := s.agent.Generator.Generate(ctx, entity.NewGenerationRequest(kind, f.params))
			if err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}

			if !result.IsSuccess() {
				failure := result.Failure()
				printf(cmd.ErrOrStderr(), "%s %s (%s)\n", failMark, failure.Message, failure.Kind)
				return fmt.Errorf("generation failed")
			}

			if result.Tier() == entity.TierFallback {
				printf(cmd.ErrOrStderr(), "%s generation service unavailable, using the built-in template\n", warnMark)
			}

			if f.exportAs != "" {
				if err := exportContent(cmd, f.params.Title, result.Content(), entity.ExportFormat(f.exportAs), f.out); err != nil {
					return err
				}
			} else if f.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(entity.ToGenerationResponse(kind, result)); err != nil {
					return err
				}
			} else {
				if err := printContent(cmd, f.params.Title, result.Content()); err != nil {
					return err
				}
			}

			if !f.save {
				return nil
			}

			recordKind, payload, err := payloadFromContent(f.params, result.Content())
			if err != nil {
				return err
			}
			record, err := s.agent.Coordinator.SaveAndPush(ctx, recordKind, "", payload, s.agent.Remote)
			if err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}
			printf(cmd.ErrOrStderr(), "%s Saved %s %s (%s)\n", okMark, record.Kind, record.ID, syncedLabel(record.Synced))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.params.Title, "title", "", "Document title")
	flags.StringVar(&f.params.Country, "country", "", "Country the delegate represents")
	flags.StringVar(&f.params.Topic, "topic", "", "Agenda topic")
	flags.StringVar(&f.params.Committee, "committee", "", "Committee name")
	flags.StringVar((*string)(&f.params.Urgency), "urgency", "", "low, medium or high")
	flags.StringVar((*string)(&f.params.Focus), "focus", "", "general, economic, security, humanitarian or environmental")
	flags.StringVar((*string)(&f.params.Tone), "tone", "", "diplomatic, assertive or collaborative")
	flags.StringVar((*string)(&f.params.Length), "length", "", "short, medium or long")
	flags.BoolVar(&f.params.IncludeStatistics, "stats", false, "Ask for statistics")
	flags.BoolVar(&f.params.IncludeCitations, "citations", false, "Ask for citations")
	flags.StringVar(&f.params.CustomInstructions, "instructions", "", "Extra instructions for the model")
	flags.BoolVar(&f.save, "save", false, "Save the result to the local cache and push it when online")
	flags.BoolVar(&f.jsonOut, "json", false, "Print the raw result as JSON")
	flags.StringVar(&f.exportAs, "export", "", "Export as markdown, html, pdf or docx instead of printing")
	flags.StringVarP(&f.out, "out", "o", "", "Export destination (default: <title><ext>)")

	return cmd
}

// payloadFromContent turns generated content into the cache payload of the matching entity kind
func payloadFromContent(params entity.GenerationParams, content entity.Content) (entity.EntityKind, json.RawMessage, error) {
	var (
		kind    entity.EntityKind
		payload any
	)

	switch c := content.(type) {
	case *entity.ResolutionContent:
		kind = entity.EntityKindResolution
		payload = entity.ResolutionPayload{
			Title:     titleOr(params.Title, params.Topic),
			Country:   params.Country,
			Topic:     params.Topic,
			Committee: params.Committee,
			Content:   c,
		}
	case *entity.SpeechContent:
		kind = entity.EntityKindSpeech
		payload = entity.SpeechPayload{
			Title:   titleOr(c.DraftSpeech.Title, params.Topic),
			Content: c.DraftSpeech.Body,
		}
	default:
		return "", nil, fmt.Errorf("%w: %s results cannot be saved", entity.ErrInvalidKind, content.DocumentKind())
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("encode payload: %w", err)
	}
	return kind, raw, nil
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}

func exportDestination(out, title, ext string) string {
	if out != "" {
		return out
	}
	return validator.SanitizeFilename(titleOr(title, "resomate")) + ext
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
