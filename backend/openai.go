package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/livetl"
)

// OpenAIEngine implements Engine using OpenAI's chat completion API.
type OpenAIEngine struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI engine.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIEngine creates a new OpenAI engine.
func NewOpenAIEngine(cfg OpenAIConfig) *OpenAIEngine {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIEngine{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates text using OpenAI.
func (e *OpenAIEngine) Translate(ctx context.Context, text, language string) (string, error) {
	lang, ok := livetl.LookupLanguage(language)
	if !ok {
		return "", livetl.ErrUnknownLanguage
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(lang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: e.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &livetl.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &livetl.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

// Name implements Engine.
func (e *OpenAIEngine) Name() string {
	return "openai:" + e.model
}

func buildSystemPrompt(lang livetl.Language) string {
	prompt := fmt.Sprintf(`# Role
You are an expert native translator. You translate short user-typed text to %s with the fluency of a highly educated native speaker.

# Task
Translate the user's message into idiomatic %s. The source language may be anything; detect it.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase to sound natural to a native speaker.
- **Idioms**: Never translate idioms literally. Use natural %s equivalents.
- **Placeholders**: Do NOT translate URLs, email addresses, code, or placeholders (e.g., {name}, %%s).
- **Formatting**: Preserve line breaks. Use idiomatic punctuation for %s.`,
		lang.DisplayName, lang.DisplayName, lang.DisplayName, lang.DisplayName)

	if livetl.IsRTL(lang.Code) {
		prompt += "\n- **Direction**: Write the output in natural right-to-left order; do not insert direction marks."
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translation" containing the translated text.
Example: { "translation": "translated text" }
- Do NOT wrap in Markdown code blocks.
- Do NOT add explanations.`

	return prompt
}

func parseResponse(content string) (string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		if s, ok := obj["translation"].(string); ok {
			return s, nil
		}
		// Fallback: some models pick a different key
		for _, v := range obj {
			if s, ok := v.(string); ok {
				return s, nil
			}
		}
	}

	return "", &livetl.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// Verify OpenAIEngine implements Engine
var _ Engine = (*OpenAIEngine)(nil)
