package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/avelarbuild/quotient/internal/llm"
)

// ScriptedLLM is an LLMClient test double. Generate consumes Responses
// in order; GenerateStream emits StreamFragments one callback at a
// time. Every request is recorded for assertions.
type ScriptedLLM struct {
	mu              sync.Mutex
	Responses       []string
	StreamFragments []string
	Err             error
	Down            bool

	Calls []llm.GenerateRequest
}

var _ llm.LLMClient = (*ScriptedLLM)(nil)

func (s *ScriptedLLM) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, req)

	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return nil, errors.New("scripted llm: no responses left")
	}
	text := s.Responses[0]
	s.Responses = s.Responses[1:]
	return &llm.GenerateResponse{Text: text, Model: "scripted"}, nil
}

func (s *ScriptedLLM) GenerateStream(ctx context.Context, req llm.GenerateRequest, fn llm.StreamFunc) (*llm.GenerateResponse, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, req)
	err := s.Err
	fragments := append([]string(nil), s.StreamFragments...)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	for _, f := range fragments {
		if cbErr := fn(f); cbErr != nil {
			return nil, cbErr
		}
	}
	return &llm.GenerateResponse{Text: strings.Join(fragments, ""), Model: "scripted"}, nil
}

func (s *ScriptedLLM) Available(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.Down
}

// CallCount returns the number of recorded requests, optionally
// filtered by task.
func (s *ScriptedLLM) CallCount(task llm.TaskType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if task == "" || c.Task == task {
			n++
		}
	}
	return n
}
