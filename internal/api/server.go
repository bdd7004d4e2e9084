// Package api exposes the quotation pipeline over HTTP. Routing is a
// plain net/http mux; responses are JSON except for document downloads
// and the SSE chat stream.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/llm"
	"github.com/avelarbuild/quotient/internal/render"
	"github.com/avelarbuild/quotient/internal/repository"
	"github.com/avelarbuild/quotient/internal/service"
)

// Server wraps the HTTP handlers for the quotation API.
type Server struct {
	quotations service.QuotationService
	sessions   service.SessionService
	chat       service.ChatService
	trigger    service.PipelineTrigger
	log        *slog.Logger
}

func NewServer(
	quotations service.QuotationService,
	sessions service.SessionService,
	chat service.ChatService,
	trigger service.PipelineTrigger,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		quotations: quotations,
		sessions:   sessions,
		chat:       chat,
		trigger:    trigger,
		log:        log,
	}
}

// Register wires the API routes onto the supplied mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/quotations", s.handleQuotations)
	mux.HandleFunc("/api/v1/quotations/", s.handleQuotationByID)
	mux.HandleFunc("/api/v1/chat", s.handleChat)
	mux.HandleFunc("/api/v1/chat/stream", s.handleChatStream)
	mux.HandleFunc("/healthz", s.handleHealth)
}

func (s *Server) handleQuotations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createQuotation(w, r)
	case http.MethodGet:
		s.listQuotations(w, r)
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodGet)
	}
}

func (s *Server) handleQuotationByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/quotations/"), "/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	id, sub, _ := strings.Cut(rest, "/")
	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.getQuotation(w, r, id)
		case http.MethodDelete:
			s.deleteQuotation(w, r, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodDelete)
		}
	case "status":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		s.getQuotationStatus(w, r, id)
	case "download":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		s.downloadQuotation(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) createQuotation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateQuotationRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q, err := s.quotations.Create(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// Processing is detached; the response reflects the accepted state.
	s.trigger.Trigger(q.ID)

	writeJSON(w, http.StatusCreated, quotationToResponse(q, nil))
}

func (s *Server) listQuotations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	all, err := s.quotations.List(r.Context(), limit, offset)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := make([]*quotationResponse, 0, len(all))
	for _, q := range all {
		out = append(out, quotationToResponse(q, nil))
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotations": out})
}

func (s *Server) getQuotation(w http.ResponseWriter, r *http.Request, id string) {
	includeData := r.URL.Query().Get("include_data") == "true"

	view, err := s.quotations.Get(r.Context(), id, includeData)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quotationToResponse(view.Quotation, view.Data))
}

func (s *Server) deleteQuotation(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.quotations.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getQuotationStatus(w http.ResponseWriter, r *http.Request, id string) {
	st, err := s.quotations.GetStatus(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp := statusResponse{
		QuotationID:   st.QuotationID,
		Status:        string(st.Status),
		CurrentStage:  st.CurrentStage,
		Progress:      st.Progress,
		FailureReason: st.FailureReason,
		LastUpdate:    st.LastUpdate.UTC().Format(time.RFC3339),
	}
	if st.EstimatedCompletion != nil {
		eta := st.EstimatedCompletion.UTC().Format(time.RFC3339)
		resp.EstimatedCompletion = &eta
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) downloadQuotation(w http.ResponseWriter, r *http.Request, id string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatText
	}

	view, err := s.quotations.Get(r.Context(), id, true)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	doc, err := render.Render(format, view.Quotation, view.Data)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req service.ChatRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := s.chat.Chat(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleChatStream speaks server-sent events: one data: line per
// dispatcher event, flushed as generated.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req service.ChatRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Attachment-bearing turns use POST /api/v1/chat; reject before the
	// event stream opens so the client gets a plain 400.
	if strings.TrimSpace(req.AttachmentText) != "" {
		writeErrorString(w, http.StatusBadRequest, "attachments require the non-streaming chat endpoint")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorString(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	err := s.chat.ChatStream(r.Context(), req, func(ev service.ChatEvent) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are gone; all we can do is log.
		s.log.Error("chat stream aborted", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrNotReady):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, llm.ErrBackendUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.log.Error("request failed", "error", err)
		writeErrorString(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeErrorString(w, status, err.Error())
}

func writeErrorString(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func decodeJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
