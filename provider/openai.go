package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/wordseed/wordseed"
)

// OpenAI implements Translator using OpenAI's API. Unlike the engine's
// literal matcher it can swap inflected forms ("ran" for a saved "run")
// and reorder the sentence around the swapped words.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key (uses OPENAI_API_KEY env var if empty)
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
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

	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate produces mixed text for one block using OpenAI.
func (p *OpenAI) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return req.Text, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: p.buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &wordseed.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &wordseed.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return p.parseResponse(resp.Choices[0].Message.Content)
}

func (p *OpenAI) buildSystemPrompt(req TranslateRequest) string {
	targetName := wordseed.GetLanguageName(req.TargetLang)

	policy := fmt.Sprintf(`Replace each occurrence of a known word (any inflected form counts) with its %s translation from the vocabulary list. Leave everything else untouched.`, targetName)
	if req.Mode == wordseed.ModePractice {
		policy = `Wrap each occurrence of a known word (any inflected form counts) in «guillemets», keeping the original word. Leave everything else untouched.`
	}

	prompt := fmt.Sprintf(`# Role
You are a language-learning assistant that produces mixed-language reading text.

# Task
%s

# Rules
- Only the listed vocabulary may be replaced; never translate unlisted words.
- Preserve all punctuation, whitespace, capitalization of untouched words, and any markup verbatim.
- Do NOT translate HTML tags, attributes, URLs, or content inside backticks.

# Format
Return a valid JSON object: { "text": "the rewritten block" }.
Do NOT wrap in Markdown code blocks.

# Vocabulary`, policy)

	keys := make([]string, 0, len(req.Vocabulary))
	for k := range req.Vocabulary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		prompt += fmt.Sprintf("\n- %q → %q", k, req.Vocabulary[k].Translation)
	}

	return prompt
}

func (p *OpenAI) buildUserMessage(req TranslateRequest) string {
	data, _ := json.Marshal(map[string]string{"text": req.Text})
	return string(data)
}

func (p *OpenAI) parseResponse(content string) (string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		if text, ok := obj["text"].(string); ok {
			return text, nil
		}
		// Fallback: first string value
		for _, v := range obj {
			if s, ok := v.(string); ok {
				return s, nil
			}
		}
	}

	return "", &wordseed.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

// isRetryableError classifies transport and server errors as retryable.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection")
}

// Verify OpenAI implements Translator
var _ Translator = (*OpenAI)(nil)
