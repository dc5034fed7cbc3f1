package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "./data/notes", config.Notes.Dir)
	assert.Equal(t, []string{".pdf", ".md"}, config.Notes.Extensions)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.Equal(t, "claude-3-5-haiku-20241022", config.Claude.Model)
	assert.Equal(t, 5, config.Study.DefaultQuizQuestions)
	assert.Equal(t, 10, config.Study.DefaultFlashcards)
	assert.Equal(t, "2h", config.Sessions.TTL)

	require.NoError(t, config.Validate())
}

func TestLoadFromFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studium.toml")
	content := `
[server]
port = 9090

[notes]
dir = "/tmp/notes"

[llm]
default_provider = "gemini"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "/tmp/notes", config.Notes.Dir)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	// Untouched values keep their defaults
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/studium.toml")
	assert.Error(t, err)
}

func TestLoadFromFileInvalidProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studium.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\ndefault_provider = \"openai\"\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STUDIUM_SERVER_PORT", "7070")
	t.Setenv("STUDIUM_NOTES_DIR", "/env/notes")
	t.Setenv("STUDIUM_LLM_DEFAULT_PROVIDER", "gemini")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "/env/notes", config.Notes.Dir)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 6060, "127.0.0.1", "/flag/notes")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, "/flag/notes", config.Notes.Dir)

	// Zero values leave the config untouched
	ApplyFlagOverrides(config, 0, "", "")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestSessionTTL(t *testing.T) {
	config := NewDefaultConfig()
	assert.Equal(t, 2*time.Hour, config.SessionTTL())

	// Unparseable values fall back to the default.
	config.Sessions.TTL = "not a duration"
	assert.Equal(t, 2*time.Hour, config.SessionTTL())
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("STUDIUM_CLAUDE_API_KEY", "env-key")
	key, err := ResolveAPIKey("claude_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	t.Setenv("STUDIUM_CLAUDE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "fallback-key")
	key, err = ResolveAPIKey("claude_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", key)

	t.Setenv("ANTHROPIC_API_KEY", "")
	key, err = ResolveAPIKey("claude_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "config-key", key)

	_, err = ResolveAPIKey("claude_api_key", "")
	assert.Error(t, err)
}
