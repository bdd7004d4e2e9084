package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/llm"
)

// PipelineTrigger starts background processing for a quotation.
type PipelineTrigger interface {
	Trigger(id string) bool
}

type chatService struct {
	sessions   SessionService
	quotations QuotationService
	trigger    PipelineTrigger
	client     llm.LLMClient
	cfg        llm.LLMConfig
	observer   UseCaseObserver
}

func NewChatService(
	sessions SessionService,
	quotations QuotationService,
	trigger PipelineTrigger,
	client llm.LLMClient,
	cfg llm.LLMConfig,
	observers ...UseCaseObserver,
) ChatService {
	return &chatService{
		sessions:   sessions,
		quotations: quotations,
		trigger:    trigger,
		client:     client,
		cfg:        cfg,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// intentDecision is the routing output for one turn.
type intentDecision struct {
	Intent             string `json:"intent"`
	ProjectDescription string `json:"project_description,omitempty"`
	Location           string `json:"location,omitempty"`
	ZipCode            string `json:"zip_code,omitempty"`
	ProjectType        string `json:"project_type,omitempty"`
	Timeline           string `json:"timeline,omitempty"`
}

const (
	intentCreateQuotation = "create_quotation"
	intentConversation    = "conversation"
)

func (s *chatService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var reply strings.Builder
	resp, err := s.dispatch(ctx, req, func(fragment string) error {
		reply.WriteString(fragment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Reply = reply.String()
	return resp, nil
}

// ChatStream runs one turn and emits the dispatcher event sequence:
// content fragments in generation order, then exactly one done or
// error event. An emit failure (client gone) stops output but never
// rolls back the turn's side effects.
func (s *chatService) ChatStream(ctx context.Context, req ChatRequest, emit EmitFunc) error {
	// Attachments ride the blocking path only.
	if strings.TrimSpace(req.AttachmentText) != "" {
		return fmt.Errorf("%w: attachments require the non-streaming chat endpoint", domain.ErrValidation)
	}

	emitFailed := false
	send := func(ev ChatEvent) {
		if emitFailed {
			return
		}
		if err := emit(ev); err != nil {
			emitFailed = true
		}
	}

	resp, err := s.dispatch(ctx, req, func(fragment string) error {
		send(ChatEvent{Type: EventContent, Content: fragment})
		return nil
	})
	if err != nil {
		send(ChatEvent{Type: EventError, Error: err.Error()})
		return nil
	}

	send(ChatEvent{
		Type:        EventDone,
		SessionID:   resp.SessionID,
		QuotationID: resp.QuotationID,
	})
	return nil
}

// dispatch runs one conversational turn. Reply text goes to onFragment
// in order; the returned response carries the ids only.
func (s *chatService) dispatch(ctx context.Context, req ChatRequest, onFragment func(string) error) (resp *ChatResponse, err error) {
	start := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "chat.dispatch",
			Duration:  time.Since(start),
			Success:   err == nil,
			Err:       err,
			StartedAt: start,
		})
	}()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.New("message must not be empty")
	}

	sess, err := s.sessions.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	// An explicit quotation id continues that quotation's context; it
	// must exist. Otherwise the session's linked quotation carries over.
	continuedID := strings.TrimSpace(req.QuotationID)
	if continuedID != "" {
		if _, err := s.quotations.Get(ctx, continuedID, false); err != nil {
			return nil, err
		}
	} else {
		continuedID = sess.QuotationID
	}

	decision := s.classifyIntent(ctx, sess.History, message, req.AttachmentText)

	var reply string
	var quotationID string
	if decision.Intent == intentCreateQuotation {
		reply, quotationID = s.startQuotation(ctx, decision, message)
	}
	if reply == "" {
		reply = s.converse(ctx, sess.History, message, onFragment)
	} else {
		// Delivery may fail if the client is gone; the turn still happened.
		_ = onFragment(reply)
	}

	// A newly created quotation becomes the session's context; a turn
	// without one keeps reporting the continued quotation.
	if quotationID == "" {
		quotationID = continuedID
	}

	if err := s.sessions.RecordExchange(ctx, sess.ID, message, reply, quotationID); err != nil {
		return nil, err
	}

	return &ChatResponse{SessionID: sess.ID, QuotationID: quotationID}, nil
}

// classifyIntent asks the intent task to route the turn, falling back
// to keyword heuristics when the model is unavailable.
func (s *chatService) classifyIntent(ctx context.Context, history []domain.Message, message, attachment string) intentDecision {
	if s.cfg.Enabled && s.client != nil {
		prompt := buildIntentPrompt(history, message)
		if attachment != "" {
			prompt += "\n\nAttached document text:\n" + attachment
		}
		resp, err := s.client.Generate(ctx, llm.GenerateRequest{
			Task:         llm.TaskIntent,
			SystemPrompt: intentSystem,
			UserPrompt:   prompt,
		})
		if err == nil {
			d, perr := llm.ExtractJSON[intentDecision](resp.Text, nil)
			if perr == nil && (d.Intent == intentCreateQuotation || d.Intent == intentConversation) {
				return d
			}
		}
	}
	return heuristicIntent(message)
}

// heuristicIntent routes without the model: an explicit ask for a
// quote plus a description long enough to validate means create.
func heuristicIntent(message string) intentDecision {
	lower := strings.ToLower(message)
	asked := false
	for _, kw := range []string{"quote", "quotation", "estimate", "price", "cost", "عرض سعر", "تسعير", "تكلفة"} {
		if strings.Contains(lower, kw) {
			asked = true
			break
		}
	}
	if asked && domain.ValidateDescription(message) == nil {
		return intentDecision{Intent: intentCreateQuotation, ProjectDescription: message}
	}
	return intentDecision{Intent: intentConversation}
}

// startQuotation creates the quotation synchronously and kicks off the
// detached pipeline. A validation failure turns into a follow-up
// question instead of an error; the conversation is the recovery path.
func (s *chatService) startQuotation(ctx context.Context, d intentDecision, message string) (reply, quotationID string) {
	description := strings.TrimSpace(d.ProjectDescription)
	if description == "" {
		description = message
	}

	q, err := s.quotations.Create(ctx, CreateQuotationRequest{
		ProjectDescription: description,
		Location:           d.Location,
		ZipCode:            d.ZipCode,
		ProjectType:        d.ProjectType,
		Timeline:           d.Timeline,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return needMoreDetailReply, ""
		}
		return "", ""
	}

	s.trigger.Trigger(q.ID)
	return quotationStartedReply(q.ID), q.ID
}

// converse streams a plain conversational reply.
func (s *chatService) converse(ctx context.Context, history []domain.Message, message string, onFragment func(string) error) string {
	if s.cfg.Enabled && s.client != nil {
		resp, err := s.client.GenerateStream(ctx, llm.GenerateRequest{
			Task:         llm.TaskChat,
			SystemPrompt: chatSystem,
			UserPrompt:   buildChatPrompt(history, message),
		}, onFragment)
		if err == nil {
			return resp.Text
		}
	}

	_ = onFragment(fallbackChatReply)
	return fallbackChatReply
}
