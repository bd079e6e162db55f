package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/futig/resomate/internal/entity"
)

func validResolution() *entity.ResolutionContent {
	return &entity.ResolutionContent{
		Preamble: []entity.PreambleEntry{
			{Type: entity.PreambleClause, Text: "Recognizing the need for action"},
		},
		Operative: []entity.OperativeEntry{
			{Number: 1, Text: "Calls upon all Member States", SubClauses: []entity.SubClause{{Letter: "a", Text: "to act"}}},
			{Number: 2, Text: "Requests the Secretary-General"},
		},
	}
}

func TestValidateContent(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		content func() entity.Content
		wantErr error
	}{
		{
			name:    "valid resolution",
			content: func() entity.Content { return validResolution() },
		},
		{
			name: "empty operative list",
			content: func() entity.Content {
				r := validResolution()
				r.Operative = nil
				return r
			},
			wantErr: entity.ErrInvalidContent,
		},
		{
			name: "operative numbering out of order",
			content: func() entity.Content {
				r := validResolution()
				r.Operative[1].Number = 5
				return r
			},
			wantErr: entity.ErrInvalidContent,
		},
		{
			name: "citation without source",
			content: func() entity.Content {
				r := validResolution()
				r.Preamble[0].Type = entity.PreambleCitation
				return r
			},
			wantErr: entity.ErrInvalidContent,
		},
		{
			name: "unknown preamble type",
			content: func() entity.Content {
				r := validResolution()
				r.Preamble[0].Type = "footnote"
				return r
			},
			wantErr: entity.ErrInvalidContent,
		},
		{
			name: "speech without body",
			content: func() entity.Content {
				return &entity.SpeechContent{DraftSpeech: entity.DraftSpeech{Title: "Kenya on Food Security"}}
			},
			wantErr: entity.ErrInvalidContent,
		},
		{
			name: "rhetoric device without examples",
			content: func() entity.Content {
				return &entity.RhetoricContent{Devices: []entity.RhetoricDevice{{Headline: "Questions"}}}
			},
			wantErr: entity.ErrInvalidContent,
		},
		{
			name:    "nil content",
			content: func() entity.Content { return nil },
			wantErr: entity.ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateContent(tt.content())
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateGenerationRequest(t *testing.T) {
	v := New()

	valid := entity.GenerationParams{
		Title:     "Food Security in the Horn of Africa",
		Country:   "Kenya",
		Topic:     "Food Security",
		Committee: "ECOSOC",
	}

	if err := v.ValidateGenerationRequest(entity.NewGenerationRequest(entity.DocumentKindResolution, valid)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missingCountry := valid
	missingCountry.Country = ""
	err := v.ValidateGenerationRequest(entity.NewGenerationRequest(entity.DocumentKindSpeech, missingCountry))
	if !errors.Is(err, entity.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}

	// rhetoric only needs a topic
	err = v.ValidateGenerationRequest(entity.NewGenerationRequest(entity.DocumentKindRhetoric, entity.GenerationParams{Topic: "Climate"}))
	if err != nil {
		t.Errorf("unexpected error for rhetoric request: %v", err)
	}

	badTone := valid
	badTone.Tone = "sarcastic"
	err = v.ValidateGenerationRequest(entity.NewGenerationRequest(entity.DocumentKindResolution, badTone))
	if !errors.Is(err, entity.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}

	err = v.ValidateGenerationRequest(entity.NewGenerationRequest("position-paper", valid))
	if !errors.Is(err, entity.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}

func TestValidatePayload(t *testing.T) {
	v := New()

	if err := v.ValidatePayload(entity.EntityKindNote, json.RawMessage(`{"title":"Caucus notes","content":"..."}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.ValidatePayload(entity.EntityKindTemplate, json.RawMessage(`{"title":"GSL","type":"memo"}`))
	if !errors.Is(err, entity.ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload for unknown template type, got %v", err)
	}

	err = v.ValidatePayload(entity.EntityKindSpeech, json.RawMessage(`not json`))
	if !errors.Is(err, entity.ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload for malformed json, got %v", err)
	}

	err = v.ValidatePayload(entity.EntityKindNote, nil)
	if !errors.Is(err, entity.ErrMissingField) {
		t.Errorf("expected ErrMissingField for empty payload, got %v", err)
	}

	err = v.ValidatePayload("poster", json.RawMessage(`{}`))
	if !errors.Is(err, entity.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Food Security (Draft 2)": "Food_Security_Draft_2",
		"../../etc/passwd":        "passwd",
		"Côte d'Ivoire":           "Côte_dIvoire",
		"  ":                      "resomate",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
