package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// StreamFunc receives one content fragment of a streaming generation.
// Fragments arrive in generation order; returning an error stops the
// stream.
type StreamFunc func(fragment string) error

// LLMClient provides access to a language model for text generation.
// Generate is the blocking mode used by pipeline stages; GenerateStream
// is the incremental mode used by the conversational dispatcher.
type LLMClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	GenerateStream(ctx context.Context, req GenerateRequest, fn StreamFunc) (*GenerateResponse, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaChunk is one JSON object of the /api/generate response. In
// non-streaming mode there is exactly one; in streaming mode the body
// is newline-delimited chunks ending with done=true.
type ollamaChunk struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	body := c.buildRequest(req, false)

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		resp, err := c.doRequest(ctx, body)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Model:     c.cfg.Model,
				LatencyMs: latency,
				Success:   true,
			})
			return &GenerateResponse{
				Text:      resp.Response,
				Model:     resp.Model,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, c.finishWithError(req, start, lastErr, ctx)
}

func (c *ollamaClient) GenerateStream(ctx context.Context, req GenerateRequest, fn StreamFunc) (*GenerateResponse, error) {
	start := time.Now()

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	body := c.buildRequest(req, true)

	httpResp, err := c.startRequest(ctx, body)
	if err != nil {
		return nil, c.finishWithError(req, start, err, ctx)
	}
	defer httpResp.Body.Close()

	var full strings.Builder
	var model string

	scanner := bufio.NewScanner(httpResp.Body)
	scanner.Buffer(make([]byte, 0, 4096), 512*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return nil, c.finishWithError(req, start, fmt.Errorf("%w: %v", ErrInvalidOutput, err), ctx)
		}
		if chunk.Model != "" {
			model = chunk.Model
		}
		if chunk.Response != "" {
			full.WriteString(chunk.Response)
			if err := fn(chunk.Response); err != nil {
				return nil, c.finishWithError(req, start, err, ctx)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, c.finishWithError(req, start, err, ctx)
	}

	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   true,
	})
	return &GenerateResponse{
		Text:      full.String(),
		Model:     model,
		LatencyMs: latency,
	}, nil
}

func (c *ollamaClient) buildRequest(req GenerateRequest, stream bool) ollamaRequest {
	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return ollamaRequest{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Stream: stream,
		Options: ollamaOptions{
			Temperature: temp,
			NumPredict:  maxTok,
		},
	}
}

func (c *ollamaClient) finishWithError(req GenerateRequest, start time.Time, lastErr error, ctx context.Context) error {
	latency := time.Since(start).Milliseconds()
	errCode := errorCode(lastErr)
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   false,
		ErrorCode: errCode,
	})

	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(lastErr) {
		return ErrBackendUnavailable
	}
	if errors.Is(lastErr, ErrInvalidOutput) {
		return lastErr
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func (c *ollamaClient) doRequest(ctx context.Context, body ollamaRequest) (*ollamaChunk, error) {
	httpResp, err := c.startRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var resp ollamaChunk
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

func (c *ollamaClient) startRequest(ctx context.Context, body ollamaRequest) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		return nil, fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, string(respBody))
	}
	return httpResp, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.Endpoint + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrBackendUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
