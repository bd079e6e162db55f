package entity

// Content is the structured output of a generation; its concrete shape depends on the document kind.
type Content interface {
	DocumentKind() DocumentKind
}

func (*ResolutionContent) DocumentKind() DocumentKind { return DocumentKindResolution }
func (*SpeechContent) DocumentKind() DocumentKind     { return DocumentKindSpeech }
func (*RhetoricContent) DocumentKind() DocumentKind   { return DocumentKindRhetoric }

// Tier names the cascade level that produced a result
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierFallback  Tier = "fallback"
)

// FailureKind is an informational category for user-facing messaging
type FailureKind string

const (
	FailureServiceTimeout FailureKind = "ServiceTimeout"
	FailureRateLimited    FailureKind = "RateLimited"
	FailureEmptyContent   FailureKind = "EmptyContent"
	FailureGeneralError   FailureKind = "GeneralError"
)

// Failure describes an exhausted cascade
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// GenerationResult is either a success carrying schema-valid content or a failure, never both.
type GenerationResult struct {
	content Content
	tier    Tier
	failure *Failure
}

func Success(content Content, tier Tier) GenerationResult {
	return GenerationResult{content: content, tier: tier}
}

func Failed(kind FailureKind, message string) GenerationResult {
	return GenerationResult{failure: &Failure{Kind: kind, Message: message}}
}

func (r GenerationResult) IsSuccess() bool {
	return r.failure == nil && r.content != nil
}

func (r GenerationResult) Content() Content {
	return r.content
}

func (r GenerationResult) Tier() Tier {
	return r.tier
}

func (r GenerationResult) Failure() *Failure {
	return r.failure
}

// GenerationResponse is the wire form of a GenerationResult
type GenerationResponse struct {
	Status  string       `json:"status"`
	Kind    DocumentKind `json:"kind"`
	Tier    Tier         `json:"tier,omitempty"`
	Content Content      `json:"content,omitempty"`
	Failure *Failure     `json:"failure,omitempty"`
}

func ToGenerationResponse(kind DocumentKind, r GenerationResult) *GenerationResponse {
	if r.IsSuccess() {
		return &GenerationResponse{
			Status:  "success",
			Kind:    kind,
			Tier:    r.Tier(),
			Content: r.Content(),
		}
	}
	return &GenerationResponse{
		Status:  "failure",
		Kind:    kind,
		Failure: r.Failure(),
	}
}
