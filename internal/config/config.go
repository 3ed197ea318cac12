package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	RAG     RAGConfig     `mapstructure:"rag"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Qdrant  QdrantConfig  `mapstructure:"qdrant"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig holds on-disk layout configuration
type StorageConfig struct {
	// MetadataFile is the JSON file mapping document id to record.
	MetadataFile string `mapstructure:"metadata_file"`
	// PDFDir holds the original PDFs, named "{docId}_{fileName}".
	PDFDir string `mapstructure:"pdf_dir"`
	// TextDir holds the extracted plain text, named "{fileName}.txt".
	TextDir string `mapstructure:"text_dir"`
	// TranscriptDB is the sqlite file for session transcripts.
	TranscriptDB string `mapstructure:"transcript_db"`
}

// RAGConfig holds retrieval configuration
type RAGConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	TopK         int `mapstructure:"top_k"`
}

// LLMConfig holds the OpenAI-compatible provider configuration
type LLMConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	ChatModel      string `mapstructure:"chat_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// QdrantConfig holds the vector database configuration
type QdrantConfig struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DOCQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	// These two are conventionally set unprefixed in the process
	// environment, keep honoring them.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && v.GetString("llm.api_key") == "" {
		v.Set("llm.api_key", key)
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port != 0 {
		v.Set("server.port", port)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	v.SetDefault("storage.metadata_file", "documents_metadata.json")
	v.SetDefault("storage.pdf_dir", "./stored_pdfs")
	v.SetDefault("storage.text_dir", "./TextoEstraido")
	v.SetDefault("storage.transcript_db", "./data/transcripts.db")

	v.SetDefault("rag.chunk_size", 1000)
	v.SetDefault("rag.chunk_overlap", 200)
	v.SetDefault("rag.top_k", 6)

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.chat_model", "gpt-4o-mini")
	v.SetDefault("llm.embedding_model", "text-embedding-3-small")

	v.SetDefault("qdrant.url", "http://localhost:6333")
	v.SetDefault("qdrant.api_key", "")
	v.SetDefault("qdrant.collection", "all_documents")
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
