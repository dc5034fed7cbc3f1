package llm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ternarybob/studium/internal/interfaces"
)

func TestConvertMessagesToClaudeRequiresUserMessage(t *testing.T) {
	_, _, err := convertMessagesToClaude(nil)
	assert.Error(t, err)

	_, _, err = convertMessagesToClaude([]interfaces.Message{
		{Role: "system", Content: "be helpful"},
	})
	assert.Error(t, err)
}

func TestConvertMessagesToClaudeExtractsSystem(t *testing.T) {
	msgs, system, err := convertMessagesToClaude([]interfaces.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "be helpful", system)
	assert.Len(t, msgs, 2)
}

func TestConvertMessagesToClaudeGroupsToolResults(t *testing.T) {
	msgs, _, err := convertMessagesToClaude([]interfaces.Message{
		{Role: "user", Content: "quiz me"},
		{Role: "assistant", ToolCalls: []interfaces.ToolCall{
			{ID: "call_1", Name: "create_quiz", Arguments: json.RawMessage(`{"topic":"heat"}`)},
			{ID: "call_2", Name: "create_flashcards", Arguments: json.RawMessage(`{"topic":"heat"}`)},
		}},
		{Role: "tool", ToolCallID: "call_1", Content: "quiz prompt"},
		{Role: "tool", ToolCallID: "call_2", Content: "flashcard prompt"},
	})

	require.NoError(t, err)
	// user turn, assistant turn with two tool_use blocks, one user turn
	// carrying both tool_result blocks
	require.Len(t, msgs, 3)
	assert.Len(t, msgs[1].Content, 2)
	assert.Len(t, msgs[2].Content, 2)
}

func TestConvertMessagesToGeminiRoles(t *testing.T) {
	contents, system, err := convertMessagesToGemini([]interfaces.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "be helpful", system)
	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
}

func TestConvertMessagesToGeminiFunctionRoundTrip(t *testing.T) {
	contents, _, err := convertMessagesToGemini([]interfaces.Message{
		{Role: "user", Content: "quiz me"},
		{Role: "assistant", ToolCalls: []interfaces.ToolCall{
			{ID: "call_1", Name: "create_quiz", Arguments: json.RawMessage(`{"topic":"heat","num_questions":3}`)},
		}},
		{Role: "tool", ToolCallID: "call_1", Content: "quiz prompt"},
		{Role: "assistant", Content: "Here is your quiz."},
	})

	require.NoError(t, err)
	require.Len(t, contents, 4)

	call := contents[1].Parts[0].FunctionCall
	require.NotNil(t, call)
	assert.Equal(t, "create_quiz", call.Name)
	assert.Equal(t, "heat", call.Args["topic"])

	response := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, response)
	assert.Equal(t, "call_1", response.ID)
	// Name recovered from the call the ID refers to
	assert.Equal(t, "create_quiz", response.Name)
	assert.Equal(t, "quiz prompt", response.Response["output"])

	assert.Equal(t, genai.RoleModel, contents[3].Role)
}

func TestConvertToolsToGemini(t *testing.T) {
	declarations := convertToolsToGemini([]interfaces.ToolSchema{
		{
			Name:        "summarize_topic",
			Description: "Summarize a topic",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic": map[string]any{"type": "string"},
				},
				"required": []any{"topic"},
			},
		},
	})

	require.Len(t, declarations, 1)
	assert.Equal(t, "summarize_topic", declarations[0].Name)
	assert.NotNil(t, declarations[0].ParametersJsonSchema)
}

func TestConvertToolsToClaudeRequiredVariants(t *testing.T) {
	tools := convertToolsToClaude([]interfaces.ToolSchema{
		{Name: "a", InputSchema: map[string]any{"required": []string{"x"}}},
		{Name: "b", InputSchema: map[string]any{"required": []any{"y", "z"}}},
		{Name: "c"},
	})

	require.Len(t, tools, 3)
	assert.Equal(t, []string{"x"}, tools[0].OfTool.InputSchema.Required)
	assert.Equal(t, []string{"y", "z"}, tools[1].OfTool.InputSchema.Required)
	assert.Empty(t, tools[2].OfTool.InputSchema.Required)
}

func TestNewRateLimiterFallback(t *testing.T) {
	limiter := newRateLimiter("", time.Second)
	assert.NotNil(t, limiter)

	limiter = newRateLimiter("not-a-duration", 2*time.Second)
	assert.NotNil(t, limiter)

	limiter = newRateLimiter("250ms", time.Second)
	assert.NotNil(t, limiter)
}
