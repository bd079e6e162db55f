package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/futig/resomate/internal/entity"
)

// extractJSON cuts the first JSON object or array out of a model reply that may carry
// surrounding prose or code fences. Returns "" when the reply holds no JSON value.
func extractJSON(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ""
	}

	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start, end := -1, -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start < 0 || end <= start {
		return ""
	}
	raw = raw[start : end+1]

	// the cut must be a single well-formed value
	dec := json.NewDecoder(strings.NewReader(raw))
	for {
		if _, err := dec.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return raw
			}
			return ""
		}
	}
}

// decode strictly decodes the JSON value found in text into dst; unknown fields are rejected
func decode(text string, dst any) error {
	if strings.TrimSpace(text) == "" {
		return entity.ErrEmptyContent
	}

	raw := extractJSON(text)
	if raw == "" {
		// plain prose is not salvaged
		return fmt.Errorf("%w: reply holds no JSON value", entity.ErrInvalidContent)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidContent, err)
	}
	return nil
}

func (uc *GenerationUsecase) parseResolution(text string) (*entity.ResolutionContent, error) {
	var content entity.ResolutionContent
	if err := decode(text, &content); err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateContent(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (uc *GenerationUsecase) parseSpeech(text string) (*entity.SpeechContent, error) {
	var content entity.SpeechContent
	if err := decode(text, &content); err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateContent(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

// parseDraftSpeech accepts a bare {title, body} object
func (uc *GenerationUsecase) parseDraftSpeech(text string) (*entity.DraftSpeech, error) {
	var draft entity.DraftSpeech
	if err := decode(text, &draft); err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateContent(&entity.SpeechContent{DraftSpeech: draft}); err != nil {
		return nil, err
	}
	return &draft, nil
}

// parseDevices accepts either a bare array of devices or an object with a "devices" field
func (uc *GenerationUsecase) parseDevices(text string) ([]entity.RhetoricDevice, error) {
	var content entity.RhetoricContent
	raw := extractJSON(text)
	if strings.HasPrefix(raw, "[") {
		if err := decode(raw, &content.Devices); err != nil {
			return nil, err
		}
	} else if err := decode(text, &content); err != nil {
		return nil, err
	}

	if err := uc.validator.ValidateContent(&content); err != nil {
		return nil, err
	}
	return content.Devices, nil
}
