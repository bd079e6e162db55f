package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/resomate/internal/config"
	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/integration/common"
	pkghttp "github.com/futig/resomate/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible chat completion service
type Connector struct {
	client openai.Client
	logger *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	opts := []option.RequestOption{
		option.WithHTTPClient(common.NewBaseClient(cfg.HTTPClientConfig)),
		option.WithAPIKey(cfg.Token),
		// retries are owned by the generation tiers
		option.WithMaxRetries(0),
	}
	if cfg.Url != "" {
		opts = append(opts, option.WithBaseURL(cfg.Url))
	}

	return &Connector{
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Complete sends the message list and returns the text of the first choice
func (c *Connector) Complete(ctx context.Context, req *entity.LLMCompletionRequest) (string, error) {
	ctxzap.Debug(ctx, "requesting completion",
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
	)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case entity.ChatRoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case entity.ChatRoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: msgs,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", translateError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", entity.ErrEmptyContent)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty message", entity.ErrEmptyContent)
	}

	ctxzap.Debug(ctx, "completion received", zap.Int("length", len(text)))

	return text, nil
}

// translateError maps SDK errors onto the pkg/http error types
func translateError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &pkghttp.HTTPError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Error(),
		}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &pkghttp.NetworkError{Err: err}
}
