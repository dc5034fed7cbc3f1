package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Notes       NotesConfig     `toml:"notes"`
	Logging     LoggingConfig   `toml:"logging"`
	Sessions    SessionsConfig  `toml:"sessions"`
	WebSocket   WebSocketConfig `toml:"websocket"`
	MCP         MCPConfig       `toml:"mcp"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Study       StudyConfig     `toml:"study"`
}

type ServerConfig struct {
	Port        int      `toml:"port" validate:"gt=0,lt=65536"`
	Host        string   `toml:"host" validate:"required"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotesConfig controls where study materials are read from
type NotesConfig struct {
	Dir        string   `toml:"dir" validate:"required"` // Directory containing study materials
	Extensions []string `toml:"extensions"`              // File extensions to scan (default: [".pdf", ".md"])
}

type LoggingConfig struct {
	Level      string `toml:"level" validate:"oneof=trace debug info warn error"`
	TimeFormat string `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
	FileOutput bool   `toml:"file_output"` // Also write logs to a file under ./logs
}

// SessionsConfig controls conversation retention
type SessionsConfig struct {
	TTL           string `toml:"ttl"`            // Idle time before a session is evicted (default: "2h")
	SweepSchedule string `toml:"sweep_schedule"` // Cron schedule for the eviction sweep (default: "*/10 * * * *")
}

// WebSocketConfig contains configuration for tool activity streaming
type WebSocketConfig struct {
	MinLevel     string `toml:"min_level"`     // Minimum event level to broadcast ("debug", "info", "warn", "error")
	ThrottleRate string `toml:"throttle_rate"` // Minimum interval between broadcasts per client (default: "100ms")
}

// MCPConfig describes how the web server launches the tool server subprocess
type MCPConfig struct {
	Command string   `toml:"command"` // Path to the tool server binary (default: "./studium-mcp")
	Args    []string `toml:"args"`    // Extra arguments passed to the tool server
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // Model for chat completions (default: "gemini-3-flash-preview")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Rate limit duration string (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Chat completion temperature (default: 1.0)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // Model for chat completions (default: "claude-3-5-haiku-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Rate limit duration string (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 1.0)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"`
}

// StudyConfig contains defaults for the study tools
type StudyConfig struct {
	DefaultQuizQuestions int `toml:"default_quiz_questions" validate:"gt=0"`
	DefaultFlashcards    int `toml:"default_flashcards" validate:"gt=0"`
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in studium.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Notes: NotesConfig{
			Dir:        "./data/notes",
			Extensions: []string{".pdf", ".md"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			TimeFormat: "15:04:05.000",
			FileOutput: true,
		},
		Sessions: SessionsConfig{
			TTL:           "2h",
			SweepSchedule: "*/10 * * * *",
		},
		WebSocket: WebSocketConfig{
			MinLevel:     "info",
			ThrottleRate: "100ms",
		},
		MCP: MCPConfig{
			Command: "./studium-mcp",
			Args:    []string{},
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-3-flash-preview",
			Timeout:     "5m",
			RateLimit:   "4s",
			Temperature: 1.0,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   8192,
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 1.0,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
		},
		Study: StudyConfig{
			DefaultQuizQuestions: 5,
			DefaultFlashcards:    10,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files.
// Later files override earlier files. Priority: CLI flags > env vars > last file > ... > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	// A .env file in the working directory seeds the process environment
	// without overriding variables already set.
	_ = godotenv.Load()

	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.ParseDuration(c.Sessions.TTL); err != nil {
		return fmt.Errorf("invalid session ttl %q: %w", c.Sessions.TTL, err)
	}
	return nil
}

// SessionTTL returns the parsed session idle timeout
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Sessions.TTL)
	if err != nil {
		return 2 * time.Hour
	}
	return d
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: STUDIUM_ENV, fallback: GO_ENV)
	if env := os.Getenv("STUDIUM_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("STUDIUM_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("STUDIUM_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if origins := os.Getenv("STUDIUM_CORS_ORIGINS"); origins != "" {
		parsed := []string{}
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) > 0 {
			config.Server.CORSOrigins = parsed
		}
	}

	// Notes configuration
	if notesDir := os.Getenv("STUDIUM_NOTES_DIR"); notesDir != "" {
		config.Notes.Dir = notesDir
	}

	// Logging configuration
	if level := os.Getenv("STUDIUM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if fileOutput := os.Getenv("STUDIUM_LOG_FILE_OUTPUT"); fileOutput != "" {
		if fo, err := strconv.ParseBool(fileOutput); err == nil {
			config.Logging.FileOutput = fo
		}
	}

	// Sessions configuration
	if ttl := os.Getenv("STUDIUM_SESSION_TTL"); ttl != "" {
		if _, err := time.ParseDuration(ttl); err == nil {
			config.Sessions.TTL = ttl
		}
	}
	if schedule := os.Getenv("STUDIUM_SESSION_SWEEP_SCHEDULE"); schedule != "" {
		config.Sessions.SweepSchedule = schedule
	}

	// MCP subprocess configuration
	if command := os.Getenv("STUDIUM_MCP_COMMAND"); command != "" {
		config.MCP.Command = command
	}

	// Gemini configuration
	if apiKey := os.Getenv("STUDIUM_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("STUDIUM_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if rateLimit := os.Getenv("STUDIUM_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}
	if temperature := os.Getenv("STUDIUM_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("STUDIUM_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // STUDIUM_ prefix takes priority
	}
	if model := os.Getenv("STUDIUM_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("STUDIUM_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if rateLimit := os.Getenv("STUDIUM_CLAUDE_RATE_LIMIT"); rateLimit != "" {
		config.Claude.RateLimit = rateLimit
	}
	if temperature := os.Getenv("STUDIUM_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("STUDIUM_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Study defaults
	if questions := os.Getenv("STUDIUM_DEFAULT_QUIZ_QUESTIONS"); questions != "" {
		if q, err := strconv.Atoi(questions); err == nil && q > 0 {
			config.Study.DefaultQuizQuestions = q
		}
	}
	if cards := os.Getenv("STUDIUM_DEFAULT_FLASHCARDS"); cards != "" {
		if c, err := strconv.Atoi(cards); err == nil && c > 0 {
			config.Study.DefaultFlashcards = c
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string, notesDir string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if notesDir != "" {
		config.Notes.Dir = notesDir
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> config fallback -> error.
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"STUDIUM_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"STUDIUM_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"claude_api_key":    {"STUDIUM_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
