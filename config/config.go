package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"etudia/utils"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration. Values are resolved in order:
// built-in defaults, the optional YAML file, then environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Documents DocumentsConfig `yaml:"documents"`
	RAG       RAGConfig       `yaml:"rag"`
	Redis     RedisConfig     `yaml:"redis"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	Mode         string `yaml:"mode"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

type RAGConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	ChatModel      string        `yaml:"chat_model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Temperature    float32       `yaml:"temperature"`
	TopK           int           `yaml:"top_k"`
	ChunkSentences int           `yaml:"chunk_sentences"`
	ChunkOverlap   int           `yaml:"chunk_overlap"`
	Timeout        time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads the configuration. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8000",
			Mode:         "release",
			MaxBodyBytes: 10 << 20,
		},
		Database:  defaultDatabaseConfig(),
		Documents: DocumentsConfig{},
		RAG: RAGConfig{
			BaseURL:        "https://api.openai.com/v1",
			ChatModel:      "gpt-3.5-turbo-0125",
			EmbeddingModel: "text-embedding-ada-002",
			Temperature:    0.2,
			TopK:           2,
			ChunkSentences: 8,
			ChunkOverlap:   1,
			Timeout:        2 * time.Minute,
		},
		Redis: RedisConfig{
			CacheTTL: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = utils.GetEnvAsString("PORT", cfg.Server.Port)
	cfg.Server.Mode = utils.GetEnvAsString("GIN_MODE", cfg.Server.Mode)
	cfg.Server.MaxBodyBytes = int64(utils.GetEnvAsUint64("MAX_BODY_BYTES", uint64(cfg.Server.MaxBodyBytes)))

	applyDatabaseEnv(&cfg.Database)
	applyDocumentsEnv(&cfg.Documents)

	cfg.RAG.APIKey = utils.GetEnvAsString("OPENAI_API_KEY", cfg.RAG.APIKey)
	cfg.RAG.BaseURL = utils.GetEnvAsString("OPENAI_BASE_URL", cfg.RAG.BaseURL)
	cfg.RAG.ChatModel = utils.GetEnvAsString("LLM_MODEL", cfg.RAG.ChatModel)
	cfg.RAG.EmbeddingModel = utils.GetEnvAsString("EMBEDDING_MODEL", cfg.RAG.EmbeddingModel)
	cfg.RAG.TopK = utils.GetEnvAsInt("RAG_TOP_K", cfg.RAG.TopK)
	cfg.RAG.Timeout = utils.GetEnvAsDuration("RAG_TIMEOUT", cfg.RAG.Timeout)

	cfg.Redis.URL = utils.GetEnvAsString("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.CacheTTL = utils.GetEnvAsDuration("ASK_CACHE_TTL", cfg.Redis.CacheTTL)

	cfg.Logging.Level = utils.GetEnvAsString("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Pretty = utils.GetEnvAsBool("LOG_PRETTY", cfg.Logging.Pretty)

	// The RAG source falls back to the notes collection.
	if cfg.Documents.DatabaseName == "" {
		cfg.Documents.DatabaseName = cfg.Database.DatabaseName
	}
	if cfg.Documents.Collection == "" {
		cfg.Documents.Collection = cfg.Database.NotesCollection
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.URI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.Database.DatabaseName == "" {
		missing = append(missing, "MONGO_DB")
	}
	if c.Server.Port == "" {
		missing = append(missing, "PORT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required settings not set: %s", strings.Join(missing, ", "))
	}
	if c.Database.MinPoolSize > c.Database.MaxPoolSize {
		return errors.New("MONGO_MIN_POOL_SIZE exceeds MONGO_MAX_POOL_SIZE")
	}
	if c.RAG.TopK <= 0 {
		return errors.New("rag top_k must be positive")
	}
	return nil
}
