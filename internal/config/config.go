package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full server configuration, loaded from the environment.
// Required values without defaults fail startup; nothing falls back at
// request time.
type Config struct {
	HTTP     HTTPConfig     `envconfig:"HTTP"`
	Postgres PostgresConfig `envconfig:"POSTGRES"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Auth     AuthConfig     `envconfig:"AUTH"`
	AI       AIConfig       `envconfig:"AI"`
	Airtable AirtableConfig `envconfig:"AIRTABLE"`
	TTS      TTSConfig      `envconfig:"TTS"`
	Game     GameConfig     `envconfig:"GAME"`
	Log      LogConfig      `envconfig:"LOG"`
}

type HTTPConfig struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	MediaDir        string        `envconfig:"MEDIA_DIR" default:"./media"`
	MediaBaseURL    string        `envconfig:"MEDIA_BASE_URL" default:"http://localhost:8080/media"`
}

type PostgresConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     int    `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USER" default:"postgres"`
	Password string `envconfig:"PASSWORD" required:"true"`
	DBName   string `envconfig:"DB" default:"lifeai"`
	SSLMode  string `envconfig:"SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"MAX_CONNS" default:"10"`
}

// DSN builds a pgx connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

type AuthConfig struct {
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	PasswordPepper  string        `envconfig:"PASSWORD_PEPPER" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TTL" default:"168h"`
}

type AIConfig struct {
	// OpenAI-compatible endpoint used for chat, tools and embeddings.
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL  string `envconfig:"OPENAI_BASE_URL" default:""`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`

	// Local model used for structured game turns.
	OllamaURL   string  `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	GameModel   string  `envconfig:"GAME_MODEL" default:"mistral"`
	Temperature float64 `envconfig:"TEMPERATURE" default:"0.3"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"1024"`

	// Token budget for retrieved context inserted into tutor prompts.
	ContextTokenBudget int `envconfig:"CONTEXT_TOKEN_BUDGET" default:"2000"`
}

type AirtableConfig struct {
	APIKey  string `envconfig:"API_KEY" required:"true"`
	BaseID  string `envconfig:"BASE_ID" required:"true"`
	Table   string `envconfig:"TABLE" default:"Feedback"`
	BaseURL string `envconfig:"BASE_URL" default:"https://api.airtable.com/v0"`
}

type TTSConfig struct {
	APIKey  string `envconfig:"API_KEY" required:"true"`
	VoiceID string `envconfig:"VOICE_ID" default:"21m00Tcm4TlvDq8ikWAM"`
	BaseURL string `envconfig:"BASE_URL" default:"https://api.elevenlabs.io/v1"`
}

type GameConfig struct {
	AgingStep   int `envconfig:"AGING_STEP" default:"1"`
	MemoryLimit int `envconfig:"MEMORY_LIMIT" default:"20"`
}

type LogConfig struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Encoding   string `envconfig:"ENCODING" default:"json"`
	OutputPath string `envconfig:"OUTPUT" default:"stdout"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("LIFEAI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	return &cfg, nil
}
