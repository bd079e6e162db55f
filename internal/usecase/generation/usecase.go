package generation

import (
	"context"
	"fmt"

	"github.com/futig/resomate/internal/config"
	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/logger"
	"github.com/futig/resomate/internal/pkg/metrics"
	pkgRetry "github.com/futig/resomate/internal/pkg/retry"
	"github.com/futig/resomate/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Strategy is one tier of the generation cascade
type Strategy struct {
	Tier entity.Tier
	Run  func(ctx context.Context, req entity.GenerationRequest) (entity.Content, error)
}

// GenerationUsecase turns generation requests into structured content
type GenerationUsecase struct {
	llmConnector     LLMConnector
	validator        *validator.Validator
	cfg              config.LLMConnectorConfig
	timer            pkgRetry.Timer
	rhetoricFallback bool
	logger           *zap.Logger
}

type Option func(*GenerationUsecase)

// WithRetryTimer replaces the timer used for backoff waits
func WithRetryTimer(t pkgRetry.Timer) Option {
	return func(uc *GenerationUsecase) {
		uc.timer = t
	}
}

// WithoutRhetoricFallback drops the deterministic tier for rhetoric-devices requests,
// so an exhausted cascade for that kind ends in a classified failure.
func WithoutRhetoricFallback() Option {
	return func(uc *GenerationUsecase) {
		uc.rhetoricFallback = false
	}
}

// NewUsecase creates a new generation use case
func NewUsecase(
	cfg config.LLMConnectorConfig,
	llmConnector LLMConnector,
	validator *validator.Validator,
	logger *zap.Logger,
	opts ...Option,
) *GenerationUsecase {
	uc := &GenerationUsecase{
		llmConnector:     llmConnector,
		validator:        validator,
		cfg:              cfg,
		rhetoricFallback: true,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Generate walks the strategies for the request's kind in order and returns the first success.
// The returned error is reserved for invalid requests; exhausted cascades come back as a failed result.
func (uc *GenerationUsecase) Generate(ctx context.Context, req entity.GenerationRequest) (entity.GenerationResult, error) {
	if err := uc.validator.ValidateGenerationRequest(req); err != nil {
		return entity.GenerationResult{}, err
	}

	kind := req.Kind()
	ctx = logger.AddFields(ctx, zap.String("document_kind", string(kind)))

	var lastErr error
	for _, strategy := range uc.strategies(kind) {
		tier := string(strategy.Tier)

		// cancellation is honoured between tiers only; the deterministic tier always runs
		if strategy.Tier != entity.TierFallback && ctx.Err() != nil {
			lastErr = ctx.Err()
			metrics.GenerationTierTotal.WithLabelValues(string(kind), tier, "skipped").Inc()
			ctxzap.Info(ctx, "generation tier skipped, request cancelled", zap.String("tier", tier))
			continue
		}

		content, err := strategy.Run(ctx, req)
		if err != nil {
			lastErr = err
			metrics.GenerationTierTotal.WithLabelValues(string(kind), tier, "failed").Inc()
			ctxzap.Warn(ctx, "generation tier failed, falling through",
				zap.String("tier", tier),
				zap.Error(err),
			)
			continue
		}

		metrics.GenerationTierTotal.WithLabelValues(string(kind), tier, "success").Inc()
		if strategy.Tier == entity.TierFallback {
			ctxzap.Info(ctx, "using deterministic fallback content")
		} else {
			ctxzap.Info(ctx, "generation tier succeeded", zap.String("tier", tier))
		}

		return entity.Success(content, strategy.Tier), nil
	}

	failureKind := classifyFailure(lastErr)
	ctxzap.Error(ctx, "generation cascade exhausted",
		zap.String("failure_kind", string(failureKind)),
		zap.Error(lastErr),
	)

	return entity.Failed(failureKind, failureMessage(failureKind)), nil
}

// strategies returns the ordered cascade for a document kind
func (uc *GenerationUsecase) strategies(kind entity.DocumentKind) []Strategy {
	var list []Strategy

	switch kind {
	case entity.DocumentKindResolution:
		list = []Strategy{
			{Tier: entity.TierPrimary, Run: uc.resolutionTier(entity.TierPrimary)},
			{Tier: entity.TierSecondary, Run: uc.resolutionTier(entity.TierSecondary)},
			{Tier: entity.TierFallback, Run: fallbackStrategy(fallbackResolution)},
		}
	case entity.DocumentKindSpeech:
		list = []Strategy{
			{Tier: entity.TierPrimary, Run: uc.speechPrimaryTier},
			{Tier: entity.TierSecondary, Run: uc.speechSecondaryTier},
			{Tier: entity.TierFallback, Run: fallbackStrategy(fallbackSpeech)},
		}
	case entity.DocumentKindRhetoric:
		list = []Strategy{
			{Tier: entity.TierPrimary, Run: uc.rhetoricTier(entity.TierPrimary)},
			{Tier: entity.TierSecondary, Run: uc.rhetoricTier(entity.TierSecondary)},
		}
		if uc.rhetoricFallback {
			list = append(list, Strategy{Tier: entity.TierFallback, Run: fallbackStrategy(fallbackRhetoric)})
		}
	}

	return list
}

func (uc *GenerationUsecase) resolutionTier(tier entity.Tier) func(context.Context, entity.GenerationRequest) (entity.Content, error) {
	return func(ctx context.Context, req entity.GenerationRequest) (entity.Content, error) {
		content, err := runTier(ctx, uc, tier, req.Kind(), resolutionPrompt(tier, req.Params()), uc.parseResolution)
		if err != nil {
			return nil, err
		}
		return content, nil
	}
}

func (uc *GenerationUsecase) rhetoricTier(tier entity.Tier) func(context.Context, entity.GenerationRequest) (entity.Content, error) {
	return func(ctx context.Context, req entity.GenerationRequest) (entity.Content, error) {
		devices, err := runTier(ctx, uc, tier, req.Kind(), rhetoricPrompt(tier, req.Params()), uc.parseDevices)
		if err != nil {
			return nil, err
		}
		return &entity.RhetoricContent{Devices: devices}, nil
	}
}

func (uc *GenerationUsecase) speechSecondaryTier(ctx context.Context, req entity.GenerationRequest) (entity.Content, error) {
	content, err := runTier(ctx, uc, entity.TierSecondary, req.Kind(), speechPrompt(entity.TierSecondary, req.Params()), uc.parseSpeech)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// tierSettings resolves model and retry policy for a service tier
func (uc *GenerationUsecase) tierSettings(tier entity.Tier) (string, pkgRetry.RetryConfig) {
	if tier == entity.TierSecondary {
		return uc.cfg.SecondaryModel, uc.cfg.SecondaryRetry
	}
	return uc.cfg.PrimaryModel, uc.cfg.PrimaryRetry
}

// runTier calls the generation service under the tier's retry policy. Service errors and
// unparseable replies are retried alike.
func runTier[T any](
	ctx context.Context,
	uc *GenerationUsecase,
	tier entity.Tier,
	kind entity.DocumentKind,
	p prompt,
	parse func(string) (T, error),
) (T, error) {
	model, retryCfg := uc.tierSettings(tier)

	req := &entity.LLMCompletionRequest{
		Model:       model,
		Messages:    p.messages(),
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}

	var extra []pkgRetry.Option
	if uc.timer != nil {
		extra = append(extra, pkgRetry.WithTimer(uc.timer))
	}

	onRetry := func(attempt uint, err error) {
		ctxzap.Debug(ctx, "generation attempt failed",
			zap.String("tier", string(tier)),
			zap.Uint("attempt", attempt+1),
			zap.Error(err),
		)
	}

	result, err := pkgRetry.Do(ctx, retryCfg, func(ctx context.Context) (T, error) {
		var zero T
		metrics.GenerationAttemptsTotal.WithLabelValues(string(kind), string(tier)).Inc()

		text, err := uc.llmConnector.Complete(ctx, req)
		if err != nil {
			return zero, err
		}
		return parse(text)
	}, onRetry, extra...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s tier: %w", tier, err)
	}

	return result, nil
}

func fallbackStrategy[C entity.Content](build func(entity.GenerationParams) C) func(context.Context, entity.GenerationRequest) (entity.Content, error) {
	return func(_ context.Context, req entity.GenerationRequest) (entity.Content, error) {
		return build(req.Params()), nil
	}
}
