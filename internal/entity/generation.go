package entity

import "fmt"

type DocumentKind string

const (
	DocumentKindResolution DocumentKind = "resolution"
	DocumentKindSpeech     DocumentKind = "speech"
	DocumentKindRhetoric   DocumentKind = "rhetoric-devices"
)

func (k DocumentKind) Validate() error {
	switch k {
	case DocumentKindResolution, DocumentKindSpeech, DocumentKindRhetoric:
		return nil
	default:
		return fmt.Errorf("%w: unknown document kind %q", ErrInvalidKind, string(k))
	}
}

// Guaranteed reports whether the pipeline must never return a Failure for this kind.
func (k DocumentKind) Guaranteed() bool {
	return k == DocumentKindResolution || k == DocumentKindSpeech
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Focus string

const (
	FocusGeneral       Focus = "general"
	FocusEconomic      Focus = "economic"
	FocusSecurity      Focus = "security"
	FocusHumanitarian  Focus = "humanitarian"
	FocusEnvironmental Focus = "environmental"
)

type Tone string

const (
	ToneDiplomatic    Tone = "diplomatic"
	ToneAssertive     Tone = "assertive"
	ToneCollaborative Tone = "collaborative"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// GenerationParams holds the named parameters of a generation request
type GenerationParams struct {
	Title              string  `json:"title"`
	Country            string  `json:"country"`
	Topic              string  `json:"topic" validate:"required"`
	Committee          string  `json:"committee"`
	Urgency            Urgency `json:"urgency" validate:"omitempty,oneof=low medium high"`
	Focus              Focus   `json:"focus" validate:"omitempty,oneof=general economic security humanitarian environmental"`
	Tone               Tone    `json:"tone" validate:"omitempty,oneof=diplomatic assertive collaborative"`
	Length             Length  `json:"length" validate:"omitempty,oneof=short medium long"`
	IncludeStatistics  bool    `json:"include_statistics"`
	IncludeCitations   bool    `json:"include_citations"`
	CustomInstructions string  `json:"custom_instructions,omitempty"`
}

// GenerationRequest is an immutable value; build it with NewGenerationRequest.
type GenerationRequest struct {
	kind   DocumentKind
	params GenerationParams
}

// NewGenerationRequest copies params, filling defaults for the optional style fields
func NewGenerationRequest(kind DocumentKind, params GenerationParams) GenerationRequest {
	if params.Urgency == "" {
		params.Urgency = UrgencyMedium
	}
	if params.Focus == "" {
		params.Focus = FocusGeneral
	}
	if params.Tone == "" {
		params.Tone = ToneDiplomatic
	}
	if params.Length == "" {
		params.Length = LengthMedium
	}
	return GenerationRequest{kind: kind, params: params}
}

func (r GenerationRequest) Kind() DocumentKind {
	return r.kind
}

func (r GenerationRequest) Params() GenerationParams {
	return r.params
}

// PreambleClauseType distinguishes plain preambular clauses from cited ones
type PreambleClauseType string

const (
	PreambleClause   PreambleClauseType = "clause"
	PreambleCitation PreambleClauseType = "citation"
)

type PreambleEntry struct {
	Type     PreambleClauseType `json:"type" validate:"required,oneof=clause citation"`
	Text     string             `json:"text" validate:"required"`
	Citation string             `json:"citation,omitempty" validate:"required_if=Type citation"`
}

type SubClause struct {
	Letter string `json:"letter" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

type OperativeEntry struct {
	Number     int         `json:"number" validate:"gte=1"`
	Text       string      `json:"text" validate:"required"`
	SubClauses []SubClause `json:"subClauses" validate:"dive"`
}

type ResolutionContent struct {
	Preamble  []PreambleEntry  `json:"preamble" validate:"required,min=1,dive"`
	Operative []OperativeEntry `json:"operative" validate:"required,min=1,dive"`
}

type DraftSpeech struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type RhetoricCategory string

const (
	RhetoricQuestion   RhetoricCategory = "question"
	RhetoricRepetition RhetoricCategory = "repetition"
	RhetoricEmotive    RhetoricCategory = "emotive"
	RhetoricContrast   RhetoricCategory = "contrast"
)

type RhetoricDevice struct {
	Type     RhetoricCategory `json:"type,omitempty" validate:"omitempty,oneof=question repetition emotive contrast"`
	Headline string           `json:"headline" validate:"required"`
	Examples []string         `json:"examples" validate:"required,min=1,dive,required"`
}

type SpeechContent struct {
	DraftSpeech     DraftSpeech      `json:"draftSpeech" validate:"required"`
	RhetoricInserts []RhetoricDevice `json:"rhetoricInserts" validate:"dive"`
}

type RhetoricContent struct {
	Devices []RhetoricDevice `json:"devices" validate:"required,min=1,dive"`
}
