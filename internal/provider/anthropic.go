package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates an AnthropicProvider. baseURL overrides the API
// endpoint for tests; pass "" for the production endpoint.
func NewAnthropic(model, apiKey, baseURL string) (*AnthropicProvider, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("anthropic api key is required (set ANTHROPIC_API_KEY or run setup)")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (a *AnthropicProvider) Name() string { return "anthropic" }

func (a *AnthropicProvider) Capabilities() Capabilities {
	// The Messages API has no enforced JSON mode; structured output relies
	// on prompt discipline, so JSONMode stays false.
	return Capabilities{
		JSONMode:     false,
		Usage:        true,
		FinishReason: true,
	}
}

// Available verifies the key and model with a one-token request.
func (a *AnthropicProvider) Available(ctx context.Context) error {
	_, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("cannot reach anthropic api: %w", err)
	}
	return nil
}

// Chat sends the conversation to the Messages API. System-role messages are
// lifted into the request's system field; the API rejects them inline.
func (a *AnthropicProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var system []anthropic.TextBlockParam
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case "assistant":
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(msgs) == 0 {
		return ChatResponse{}, fmt.Errorf("no user messages in request")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(resolveModel(req.Model, a.model)),
		MaxTokens: anthropicMaxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}

	response, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("anthropic chat: %w", err)
	}

	var sb strings.Builder
	for _, content := range response.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	result := strings.TrimSpace(sb.String())
	if result == "" {
		return ChatResponse{}, fmt.Errorf("empty response from model")
	}

	expectJSON := req.ExpectJSON || len(req.Schema) > 0
	usage := Usage{
		InputTokens:  int(response.Usage.InputTokens),
		OutputTokens: int(response.Usage.OutputTokens),
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	return ChatResponse{
		Text:         result,
		Raw:          result,
		Structured:   isStructuredJSON(expectJSON, result),
		FinishReason: string(response.StopReason),
		Usage:        usage,
	}, nil
}
