package service

import (
	"context"
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/pipeline"
)

// CreateQuotationRequest carries the client-provided fields for a new
// quotation. Only the description is mandatory.
type CreateQuotationRequest struct {
	ProjectDescription string `json:"project_description"`
	Location           string `json:"location,omitempty"`
	ZipCode            string `json:"zip_code,omitempty"`
	ProjectType        string `json:"project_type,omitempty"`
	Timeline           string `json:"timeline,omitempty"`
}

// QuotationView is a quotation plus its stage outputs when available.
type QuotationView struct {
	Quotation *domain.Quotation
	Data      *domain.QuotationData
}

// StatusProjection is the polling view of a quotation. Polling is
// read-only; asking for status never advances the pipeline.
type StatusProjection struct {
	QuotationID         string
	Status              domain.QuotationStatus
	CurrentStage        string
	Progress            int
	EstimatedCompletion *time.Time // advisory, absent once terminal
	FailureReason       string
	LastUpdate          time.Time
}

// QuotationService owns quotation reads and writes. It embeds
// pipeline.Recorder so the orchestrator records progress through the
// same per-id serialization the client-facing writes use.
type QuotationService interface {
	pipeline.Recorder

	// Create validates and persists a new pending quotation. It does
	// not start processing; the caller triggers the pipeline.
	Create(ctx context.Context, req CreateQuotationRequest) (*domain.Quotation, error)
	Get(ctx context.Context, id string, includeData bool) (*QuotationView, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Quotation, error)
	GetStatus(ctx context.Context, id string) (*StatusProjection, error)
	Delete(ctx context.Context, id string) error
}

type SessionService interface {
	// GetOrCreate returns the session with the given id, or a fresh
	// session when id is empty or unknown.
	GetOrCreate(ctx context.Context, id string) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	// RecordExchange appends a user/assistant message pair and the
	// optional quotation link in one write.
	RecordExchange(ctx context.Context, id, userMsg, assistantMsg, quotationID string) error
}

// ChatEvent is one unit of dispatcher output. A stream is zero or more
// content events followed by exactly one done or error event.
type ChatEvent struct {
	Type        string `json:"type"` // content, done, error
	Content     string `json:"content,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	QuotationID string `json:"quotation_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

const (
	EventContent = "content"
	EventDone    = "done"
	EventError   = "error"
)

// ChatRequest is one conversational turn. QuotationID continues an
// earlier quotation's context; when the turn does not start a new
// quotation, the done event echoes the continued id. Attachment-bearing
// turns must use the blocking Chat path.
type ChatRequest struct {
	SessionID      string `json:"session_id,omitempty"`
	QuotationID    string `json:"quotation_id,omitempty"`
	Message        string `json:"message"`
	AttachmentText string `json:"attachment_text,omitempty"`
}

// ChatResponse is the blocking form of a turn's outcome.
type ChatResponse struct {
	SessionID   string `json:"session_id"`
	Reply       string `json:"reply"`
	QuotationID string `json:"quotation_id,omitempty"`
}

// EmitFunc receives dispatcher events in order. Returning an error
// stops the stream; the turn's side effects are not rolled back.
type EmitFunc func(ChatEvent) error

type ChatService interface {
	// Chat runs one turn and returns the full reply at once.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// ChatStream runs one turn, emitting reply fragments as they are
	// generated.
	ChatStream(ctx context.Context, req ChatRequest, emit EmitFunc) error
}
