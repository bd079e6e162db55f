package llm

import (
	"context"
	"strings"

	"github.com/futig/resomate/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers with canned JSON shaped after the schema the prompt asks for
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, req *entity.LLMCompletionRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completion requested", zap.String("model", req.Model))

	var prompt strings.Builder
	for _, msg := range req.Messages {
		prompt.WriteString(msg.Content)
		prompt.WriteByte('\n')
	}
	text := prompt.String()

	switch {
	case strings.Contains(text, `"operative"`):
		return mockResolution, nil
	case strings.Contains(text, `"draftSpeech"`):
		return `{"draftSpeech": ` + mockDraftSpeech + `, "rhetoricInserts": ` + mockRhetoric + `}`, nil
	case strings.Contains(text, `"body"`):
		return mockDraftSpeech, nil
	default:
		return mockRhetoric, nil
	}
}

const mockResolution = `{
  "preamble": [
    {"type": "clause", "text": "Recognizing the importance of the topic under discussion (MOCK)"},
    {"type": "citation", "text": "Recalling its previous resolutions", "citation": "A/RES/70/1"}
  ],
  "operative": [
    {"number": 1, "text": "Calls upon all Member States to cooperate (MOCK)", "subClauses": [{"letter": "a", "text": "through regional partnerships"}]},
    {"number": 2, "text": "Decides to remain actively seized of the matter", "subClauses": []}
  ]
}`

const mockDraftSpeech = `{"title": "Position statement (MOCK)", "body": "Honorable Chair, distinguished delegates, this is a generated placeholder speech. Thank you, Chair."}`

const mockRhetoric = `[
  {"type": "question", "headline": "Questions (MOCK)", "examples": ["Can we afford to wait?"]},
  {"type": "contrast", "headline": "Contrasts (MOCK)", "examples": ["Action over words."]}
]`
