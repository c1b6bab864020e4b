package generator

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat
// completions). Works against any OpenAI-compatible endpoint via BaseURL.
type OpenAILLM struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Opts        []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{
		Model:       cfg.Model,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
		Opts:        opts,
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
		openai.UserMessage(prompt.User),
	}
	if prompt.Primer != "" {
		// Prefill the assistant turn so the reply starts mid-expression.
		msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(prompt.Primer))
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.Model),
		Messages:    msgs,
		MaxTokens:   openai.Int(o.MaxTokens),
		Temperature: openai.Float(o.Temperature),
	})
	if err != nil {
		return "", classifyRequestError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &TransportError{Err: errors.New("openai: empty choices")}
	}
	return StripFences(resp.Choices[0].Message.Content), nil
}

// classifyRequestError separates rate limiting from everything else; both
// are fatal to the conversion, but callers treat them differently.
func classifyRequestError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return &TransportError{Err: err}
}
