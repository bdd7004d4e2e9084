package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskExtract TaskType = "extract"
	TaskPrice   TaskType = "price"
	TaskIntent  TaskType = "intent"
	TaskChat    TaskType = "chat"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    true,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskExtract: {Temperature: 0.1, MaxTokens: 1024, TimeoutMs: 30000},
			TaskPrice:   {Temperature: 0.1, MaxTokens: 1024, TimeoutMs: 30000},
			TaskIntent:  {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 10000},
			TaskChat:    {Temperature: 0.5, MaxTokens: 2048, TimeoutMs: 60000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("QUOTIENT_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("QUOTIENT_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("QUOTIENT_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("QUOTIENT_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("QUOTIENT_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("QUOTIENT_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskExtract, "QUOTIENT_LLM_EXTRACT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskPrice, "QUOTIENT_LLM_PRICE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskIntent, "QUOTIENT_LLM_INTENT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskChat, "QUOTIENT_LLM_CHAT_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
