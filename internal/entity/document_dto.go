package entity

import "encoding/json"

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
	FormatHTML     ExportFormat = "html"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF, FormatHTML:
		return true
	default:
		return false
	}
}

// CreateDocumentRequest is sent by the sync client on first push of a record
type CreateDocumentRequest struct {
	LocalID string          `json:"local_id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// PatchDocumentRequest replaces the payload of an existing document
type PatchDocumentRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type ListDocumentsRequest struct {
	Skip  int
	Limit int
}

func (ld *ListDocumentsRequest) Normalize() {
	if ld.Skip < 0 {
		ld.Skip = 0
	}
	if ld.Limit <= 0 {
		ld.Limit = 50
	}

	ld.Limit = min(ld.Limit, 500)
}

type DocumentResponse struct {
	ID        string          `json:"id"`
	Kind      EntityKind      `json:"kind"`
	LocalID   string          `json:"local_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type ListDocumentsResponse struct {
	Documents []*DocumentResponse `json:"documents"`
}

type DeleteDocumentResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
