package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/futig/resomate/internal/entity"
	"github.com/go-playground/validator/v10"
)

// Validator checks requests, generated content and document payloads against their schemas
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{validate: v}
}

// ValidateGenerationRequest checks the kind and the named parameters of a request
func (v *Validator) ValidateGenerationRequest(req entity.GenerationRequest) error {
	if err := req.Kind().Validate(); err != nil {
		return err
	}

	params := req.Params()
	if req.Kind() != entity.DocumentKindRhetoric {
		if strings.TrimSpace(params.Country) == "" {
			return fmt.Errorf("%w: country", entity.ErrMissingField)
		}
		if strings.TrimSpace(params.Committee) == "" {
			return fmt.Errorf("%w: committee", entity.ErrMissingField)
		}
	}
	if req.Kind() == entity.DocumentKindResolution && strings.TrimSpace(params.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}

	if err := v.validate.Struct(params); err != nil {
		return translate(err, entity.ErrInvalidParameter)
	}
	return nil
}

// ValidateContent rejects content that is not fully structured
func (v *Validator) ValidateContent(content entity.Content) error {
	if content == nil {
		return entity.ErrEmptyContent
	}
	if err := v.validate.Struct(content); err != nil {
		return translate(err, entity.ErrInvalidContent)
	}

	if res, ok := content.(*entity.ResolutionContent); ok {
		for i, op := range res.Operative {
			if op.Number != i+1 {
				return fmt.Errorf("%w: operative clause %d is numbered %d", entity.ErrInvalidContent, i+1, op.Number)
			}
		}
	}
	return nil
}

// ValidatePayload decodes raw as the payload type of kind and validates it
func (v *Validator) ValidatePayload(kind entity.EntityKind, raw json.RawMessage) error {
	payload, err := entity.NewPayload(kind)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: payload", entity.ErrMissingField)
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
	}
	if err := v.validate.Struct(payload); err != nil {
		return translate(err, entity.ErrInvalidPayload)
	}
	return nil
}

func translate(err error, sentinel error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", sentinel, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}
