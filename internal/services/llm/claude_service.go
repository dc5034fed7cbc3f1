package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/studium/internal/common"
	"github.com/ternarybob/studium/internal/interfaces"
)

// ClaudeService implements the CompletionService interface using the
// Anthropic Claude API, including tool use.
type ClaudeService struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	timeout   time.Duration
	maxTokens int
	limiter   *rate.Limiter
}

// Compile-time interface assertion
var _ interfaces.CompletionService = (*ClaudeService)(nil)

// NewClaudeService creates a new Claude completion service instance.
// The API key resolves from the environment first, then from config.
func NewClaudeService(claudeConfig *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	apiKey, err := common.ResolveAPIKey("anthropic_api_key", claudeConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API key is required for Claude service (set via ANTHROPIC_API_KEY, STUDIUM_CLAUDE_API_KEY, or claude.api_key in config): %w", err)
	}

	if claudeConfig.Model == "" {
		claudeConfig.Model = "claude-3-5-haiku-20241022"
	}

	timeout, err := time.ParseDuration(claudeConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", claudeConfig.Timeout, err)
	}

	maxTokens := claudeConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	service := &ClaudeService{
		config:    claudeConfig,
		logger:    logger,
		client:    client,
		timeout:   timeout,
		maxTokens: maxTokens,
		limiter:   newRateLimiter(claudeConfig.RateLimit, time.Second),
	}

	logger.Debug().
		Str("model", claudeConfig.Model).
		Dur("timeout", timeout).
		Float32("temperature", claudeConfig.Temperature).
		Int("max_tokens", maxTokens).
		Msg("Claude completion service initialized successfully")

	return service, nil
}

// Complete generates one completion round, offering the given tools
func (s *ClaudeService) Complete(ctx context.Context, messages []interfaces.Message, tools []interfaces.ToolSchema) (*interfaces.Completion, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty for chat completion")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("message_count", len(messages)).
		Int("tool_count", len(tools)).
		Msg("Starting Claude completion")

	claudeMessages, systemText, err := convertMessagesToClaude(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Claude format: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		Messages:  claudeMessages,
	}

	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	if len(tools) > 0 {
		params.Tools = convertToolsToClaude(tools)
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().Err(err).Int("message_count", len(messages)).Msg("Claude completion failed")
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	completion := &interfaces.Completion{Model: s.config.Model}
	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			completion.ToolCalls = append(completion.ToolCalls, interfaces.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	completion.Text = text.String()

	if completion.Text == "" && len(completion.ToolCalls) == 0 {
		return nil, fmt.Errorf("no response generated from Claude API")
	}

	s.logger.Debug().
		Int("response_length", len(completion.Text)).
		Int("tool_calls", len(completion.ToolCalls)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude completion finished")

	return completion, nil
}

// convertToolsToClaude maps tool schemas to Claude tool declarations
func convertToolsToClaude(tools []interfaces.ToolSchema) []anthropic.ToolUnionParam {
	claudeTools := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		var properties any
		var required []string
		if tool.InputSchema != nil {
			properties = tool.InputSchema["properties"]
			if req, ok := tool.InputSchema["required"].([]string); ok {
				required = req
			} else if reqAny, ok := tool.InputSchema["required"].([]any); ok {
				for _, r := range reqAny {
					if name, ok := r.(string); ok {
						required = append(required, name)
					}
				}
			}
		}

		claudeTools = append(claudeTools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: properties,
					Required:   required,
				},
			},
		})
	}
	return claudeTools
}

// convertMessagesToClaude converts []interfaces.Message to Claude MessageParam
// format. System messages are extracted for the System parameter. Assistant
// tool calls become tool_use blocks; consecutive tool messages collapse into
// a single user message of tool_result blocks, which Claude requires to
// directly follow the assistant turn that issued the calls.
func convertMessagesToClaude(messages []interfaces.Message) ([]anthropic.MessageParam, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	var systemText string

	for i := 0; i < len(messages); i++ {
		msg := messages[i]

		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}

		case "assistant":
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: tc.Arguments,
					},
				})
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock(""))
			}
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(blocks...))

		case "tool":
			// Group this and any directly following tool results
			var blocks []anthropic.ContentBlockParamUnion
			for i < len(messages) && messages[i].Role == "tool" {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: messages[i].ToolCallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{OfText: &anthropic.TextBlockParam{Text: messages[i].Content}},
						},
					},
				})
				i++
			}
			i--
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(blocks...))

		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	return claudeMessages, systemText, nil
}

// HealthCheck verifies the Claude service can reach its API with a
// lightweight probe
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	s.logger.Debug().Msg("Running Claude completion service health check")

	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	completion, err := s.Complete(healthCheckCtx, []interfaces.Message{
		{Role: "user", Content: "ping"},
	}, nil)
	if err != nil {
		return fmt.Errorf("Claude health check failed: %w", err)
	}

	if len(strings.TrimSpace(completion.Text)) == 0 {
		return fmt.Errorf("Claude probe returned empty response")
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Msg("Claude completion service health check passed")

	return nil
}

// GetMode returns the current operational mode of the service
func (s *ClaudeService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases resources and performs cleanup operations
func (s *ClaudeService) Close() error {
	s.logger.Debug().Msg("Closing Claude completion service")
	// Claude client doesn't require explicit cleanup
	return nil
}
