package generation

import (
	"fmt"
	"strings"

	"github.com/futig/resomate/internal/entity"
)

const (
	resolutionSchema = `{
  "preamble": [
    {"type": "clause", "text": "preambular clause"},
    {"type": "citation", "text": "preambular clause", "citation": "source document"}
  ],
  "operative": [
    {"number": 1, "text": "operative clause", "subClauses": [{"letter": "a", "text": "sub-clause"}]}
  ]
}`

	draftSpeechSchema = `{"title": "speech title", "body": "full speech text"}`

	speechSchema = `{
  "draftSpeech": {"title": "speech title", "body": "full speech text"},
  "rhetoricInserts": [{"type": "question", "headline": "style summary", "examples": ["example"]}]
}`

	rhetoricSchema = `[
  {"type": "question", "headline": "style summary", "examples": ["example 1", "example 2", "example 3"]},
  {"type": "repetition", "headline": "style summary", "examples": ["example 1", "example 2", "example 3"]},
  {"type": "emotive", "headline": "style summary", "examples": ["example 1", "example 2", "example 3"]},
  {"type": "contrast", "headline": "style summary", "examples": ["example 1", "example 2", "example 3"]}
]`
)

// prompt is a system/user pair with its sampling parameters
type prompt struct {
	system      string
	user        string
	temperature float64
	maxTokens   int64
}

func (p prompt) messages() []entity.ChatMessage {
	return []entity.ChatMessage{
		{Role: entity.ChatRoleSystem, Content: p.system},
		{Role: entity.ChatRoleUser, Content: p.user},
	}
}

func resolutionPrompt(tier entity.Tier, params entity.GenerationParams) prompt {
	if tier == entity.TierSecondary {
		return prompt{
			system:      "You draft short UN resolutions. Reply with JSON only.",
			user:        fmt.Sprintf("Draft a resolution on %s submitted by %s. Reply with JSON shaped like:\n%s", params.Topic, params.Country, resolutionSchema),
			temperature: 0.5,
			maxTokens:   1500,
		}
	}

	var b strings.Builder
	b.WriteString("Draft a UN-style resolution for the following brief.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", params.Title)
	fmt.Fprintf(&b, "Committee: %s\n", params.Committee)
	fmt.Fprintf(&b, "Topic: %s\n", params.Topic)
	fmt.Fprintf(&b, "Delegation: %s\n", params.Country)
	fmt.Fprintf(&b, "Urgency: %s\n", params.Urgency)
	fmt.Fprintf(&b, "Focus: %s\n", params.Focus)
	fmt.Fprintf(&b, "Tone: %s\n", params.Tone)
	fmt.Fprintf(&b, "Length: %s\n", params.Length)
	if params.CustomInstructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", params.CustomInstructions)
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("- preambular clauses open with participles such as Recognizing, Noting or Concerned\n")
	b.WriteString("- operative clauses are numbered from 1 and open with verbs such as Calls upon, Requests or Decides\n")
	if params.IncludeStatistics {
		b.WriteString("- support the clauses with relevant statistics\n")
	}
	if params.IncludeCitations {
		b.WriteString("- cite sources in UN format using citation entries\n")
	}
	fmt.Fprintf(&b, "\nReply with JSON shaped like:\n%s", resolutionSchema)

	return prompt{
		system:      "You write UN resolutions in formal diplomatic language and always reply with valid JSON.",
		user:        b.String(),
		temperature: 0.7,
		maxTokens:   2000,
	}
}

// speechPrompt builds the speech request. The primary tier asks for the body alone
// because its rhetoric inserts come from a parallel rhetoric request.
func speechPrompt(tier entity.Tier, params entity.GenerationParams) prompt {
	if tier == entity.TierSecondary {
		return prompt{
			system:      "You write concise diplomatic speeches with rhetorical devices. Reply with JSON only.",
			user:        fmt.Sprintf("Write a UN speech for %s on %s. Reply with JSON shaped like:\n%s", params.Country, params.Topic, speechSchema),
			temperature: 0.6,
			maxTokens:   1200,
		}
	}

	var b strings.Builder
	b.WriteString("Write a UN-style diplomatic speech for the following brief.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", params.Title)
	fmt.Fprintf(&b, "Committee: %s\n", params.Committee)
	fmt.Fprintf(&b, "Topic: %s\n", params.Topic)
	fmt.Fprintf(&b, "Delegation: %s\n", params.Country)
	if params.CustomInstructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", params.CustomInstructions)
	}
	b.WriteString("\nThe speech greets the chair, states the delegation's position, addresses the main aspects of the topic ")
	b.WriteString("and closes with a call to action. It should take three to four minutes to deliver.\n")
	fmt.Fprintf(&b, "\nReply with JSON shaped like:\n%s", draftSpeechSchema)

	return prompt{
		system:      "You are a UN speechwriter and always reply with valid JSON.",
		user:        b.String(),
		temperature: 0.7,
		maxTokens:   1500,
	}
}

func rhetoricPrompt(tier entity.Tier, params entity.GenerationParams) prompt {
	if tier == entity.TierSecondary {
		return prompt{
			system:      "You suggest rhetorical devices for diplomatic speeches. Reply with JSON only.",
			user:        fmt.Sprintf("Suggest questions, repetition, emotive appeals and contrasts for a speech on %s. Reply with JSON shaped like:\n%s", params.Topic, rhetoricSchema),
			temperature: 0.7,
			maxTokens:   800,
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest rhetorical devices for a UN debate speech on %q.\n\n", params.Topic)
	b.WriteString("Give four categories: rhetorical questions, repetition or parallelism, emotive appeals and contrasts. ")
	b.WriteString("Each category has a one-sentence headline and two or three examples tailored to the topic. ")
	b.WriteString("Keep the register formal and respectful of diplomatic protocol.\n")
	fmt.Fprintf(&b, "\nReply with JSON shaped like:\n%s", rhetoricSchema)

	return prompt{
		system:      "You are an expert in diplomatic rhetoric and always reply with valid JSON.",
		user:        b.String(),
		temperature: 0.8,
		maxTokens:   1000,
	}
}
