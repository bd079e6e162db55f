package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityKind is one of the user document kinds kept in the local cache and the remote store
type EntityKind string

const (
	EntityKindResolution EntityKind = "resolution"
	EntityKindTemplate   EntityKind = "template"
	EntityKindNote       EntityKind = "note"
	EntityKindSpeech     EntityKind = "speech"
)

// EntityKinds lists every cached kind in a stable order
var EntityKinds = []EntityKind{
	EntityKindResolution,
	EntityKindTemplate,
	EntityKindNote,
	EntityKindSpeech,
}

func (k EntityKind) Validate() error {
	switch k {
	case EntityKindResolution, EntityKindTemplate, EntityKindNote, EntityKindSpeech:
		return nil
	default:
		return fmt.Errorf("%w: unknown entity kind %q", ErrInvalidKind, string(k))
	}
}

// CacheRecord is a locally persisted copy of a user document plus its sync state.
// A record with Synced=false has been written locally after the last confirmed push, or was never pushed.
type CacheRecord struct {
	ID           string          `json:"id"`
	Kind         EntityKind      `json:"kind"`
	Payload      json.RawMessage `json:"payload"`
	LastModified time.Time       `json:"last_modified"`
	Synced       bool            `json:"synced"`
	RemoteID     string          `json:"remote_id,omitempty"` // empty until the first confirmed push
}

// RemoteEntity is the authoritative copy held by the remote store
type RemoteEntity struct {
	ID        string          `json:"id"`
	Kind      EntityKind      `json:"kind"`
	OwnerID   string          `json:"owner_id"`
	LocalID   string          `json:"local_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UnsyncedRecords groups pending records by kind
type UnsyncedRecords map[EntityKind][]*CacheRecord

// Total returns the number of pending records across all kinds
func (u UnsyncedRecords) Total() int {
	total := 0
	for _, records := range u {
		total += len(records)
	}
	return total
}

// SyncReport summarises one reconciliation sweep
type SyncReport struct {
	Attempted int `json:"attempted"`
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
}

type TemplateType string

const (
	TemplateResolution      TemplateType = "resolution"
	TemplatePositionPaper   TemplateType = "position_paper"
	TemplateWorkingPaper    TemplateType = "working_paper"
	TemplateGSL             TemplateType = "gsl"
	TemplateModeratedCaucus TemplateType = "moderated_caucus"
)

type ResolutionPayload struct {
	Title     string             `json:"title" validate:"required"`
	Country   string             `json:"country"`
	Topic     string             `json:"topic"`
	Committee string             `json:"committee"`
	Content   *ResolutionContent `json:"content,omitempty"`
}

type TemplatePayload struct {
	Title   string          `json:"title" validate:"required"`
	Type    TemplateType    `json:"type" validate:"required,oneof=resolution position_paper working_paper gsl moderated_caucus"`
	Content json.RawMessage `json:"content,omitempty"`
}

type NotePayload struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

type SpeechPayload struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// NewPayload returns an empty payload value for kind, suitable for decoding and validation
func NewPayload(kind EntityKind) (any, error) {
	switch kind {
	case EntityKindResolution:
		return &ResolutionPayload{}, nil
	case EntityKindTemplate:
		return &TemplatePayload{}, nil
	case EntityKindNote:
		return &NotePayload{}, nil
	case EntityKindSpeech:
		return &SpeechPayload{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidKind, string(kind))
	}
}
