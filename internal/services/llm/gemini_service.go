package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/studium/internal/common"
	"github.com/ternarybob/studium/internal/interfaces"
)

// GeminiService implements the CompletionService interface using the
// Google Gemini API, including function calling.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// Compile-time interface assertion
var _ interfaces.CompletionService = (*GeminiService)(nil)

// NewGeminiService creates a new Gemini completion service instance.
// The API key resolves from the environment first, then from config.
func NewGeminiService(geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	apiKey, err := common.ResolveAPIKey("gemini_api_key", geminiConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Google API key is required for Gemini service (set via GEMINI_API_KEY, STUDIUM_GEMINI_API_KEY, or gemini.api_key in config): %w", err)
	}

	if geminiConfig.Model == "" {
		geminiConfig.Model = "gemini-3-flash-preview"
	}

	timeout, err := time.ParseDuration(geminiConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  geminiConfig,
		logger:  logger,
		client:  client,
		timeout: timeout,
		limiter: newRateLimiter(geminiConfig.RateLimit, 4*time.Second),
	}

	logger.Debug().
		Str("model", geminiConfig.Model).
		Dur("timeout", timeout).
		Float32("temperature", geminiConfig.Temperature).
		Msg("Gemini completion service initialized successfully")

	return service, nil
}

// Complete generates one completion round, offering the given tools
func (s *GeminiService) Complete(ctx context.Context, messages []interfaces.Message, tools []interfaces.ToolSchema) (*interfaces.Completion, error) {
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
		Msg("Starting Gemini completion")

	geminiContents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}

	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{
			FunctionDeclarations: convertToolsToGemini(tools),
		}}
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, geminiContents, config)
	if err != nil {
		s.logger.Error().Err(err).Int("message_count", len(messages)).Msg("Gemini completion failed")
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response generated from Gemini API")
	}

	completion := &interfaces.Completion{Model: s.config.Model}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to encode function call arguments: %w", err)
			}
			completion.ToolCalls = append(completion.ToolCalls, interfaces.ToolCall{
				ID:        part.FunctionCall.ID,
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	completion.Text = text.String()

	if completion.Text == "" && len(completion.ToolCalls) == 0 {
		return nil, fmt.Errorf("no response generated from Gemini API")
	}

	s.logger.Debug().
		Int("response_length", len(completion.Text)).
		Int("tool_calls", len(completion.ToolCalls)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini completion finished")

	return completion, nil
}

// convertToolsToGemini maps tool schemas to Gemini function declarations
func convertToolsToGemini(tools []interfaces.ToolSchema) []*genai.FunctionDeclaration {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:                 tool.Name,
			Description:          tool.Description,
			ParametersJsonSchema: tool.InputSchema,
		})
	}
	return declarations
}

// convertMessagesToGemini converts []interfaces.Message to Gemini Content
// format. System messages are extracted for SystemInstruction. Assistant
// tool calls become FunctionCall parts; consecutive tool messages collapse
// into a single user content of FunctionResponse parts.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
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

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string

	// FunctionResponse parts must name the function that produced them;
	// tool messages only carry the call ID, so track ID to name.
	callNames := make(map[string]string)

	for i := 0; i < len(messages); i++ {
		msg := messages[i]

		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}

		case "assistant":
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				callNames[tc.ID] = tc.Name

				args := map[string]any{}
				if len(tc.Arguments) > 0 {
					if err := json.Unmarshal(tc.Arguments, &args); err != nil {
						return nil, "", fmt.Errorf("failed to decode arguments for call %s: %w", tc.Name, err)
					}
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   tc.ID,
						Name: tc.Name,
						Args: args,
					},
				})
			}
			if len(parts) == 0 {
				parts = append(parts, genai.NewPartFromText(""))
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case "tool":
			var parts []*genai.Part
			for i < len(messages) && messages[i].Role == "tool" {
				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:   messages[i].ToolCallID,
						Name: callNames[messages[i].ToolCallID],
						Response: map[string]any{
							"output": messages[i].Content,
						},
					},
				})
				i++
			}
			i--
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})

		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		}
	}

	return contents, systemText, nil
}

// HealthCheck verifies the Gemini service can reach its API with a
// lightweight probe
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	s.logger.Debug().Msg("Running Gemini completion service health check")

	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	completion, err := s.Complete(healthCheckCtx, []interfaces.Message{
		{Role: "user", Content: "ping"},
	}, nil)
	if err != nil {
		return fmt.Errorf("Gemini health check failed: %w", err)
	}

	if len(strings.TrimSpace(completion.Text)) == 0 {
		return fmt.Errorf("Gemini probe returned empty response")
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Msg("Gemini completion service health check passed")

	return nil
}

// GetMode returns the current operational mode of the service
func (s *GeminiService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases resources and performs cleanup operations
func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini completion service")
	// genai client doesn't require explicit cleanup
	return nil
}
