package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config reúne toda a configuração do serviço
type Config struct {
	Server    ServerConfig
	Datastore DatastoreConfig
	LLM       LLMConfig
	Knowledge KnowledgeConfig
	LogLevel  string
}

// ServerConfig configura o servidor HTTP
type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
	RedactErrors   bool
}

// DatastoreConfig contém as credenciais do Supabase
type DatastoreConfig struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// LLMConfig configura o serviço de completion (Gemini)
type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// KnowledgeConfig controla como a base de conhecimento é montada
type KnowledgeConfig struct {
	CacheTTL time.Duration
	Strict   bool
}

// Load lê a configuração das variáveis de ambiente. Segredos obrigatórios
// ausentes impedem a inicialização.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           GetIntEnv("PORT", 8000),
			RequestTimeout: GetDurationEnv("REQUEST_TIMEOUT", 60*time.Second),
			RedactErrors:   GetBoolEnv("REDACT_ERRORS", false),
		},
		Datastore: DatastoreConfig{
			URL:     strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			Key:     os.Getenv("SUPABASE_KEY"),
			Timeout: GetDurationEnv("DATASTORE_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			APIKey:      os.Getenv("API_KEY"),
			Model:       GetStringEnv("MODEL", "gemini-2.5-flash"),
			Temperature: GetFloat32Env("TEMPERATURE", 0.7),
		},
		Knowledge: KnowledgeConfig{
			CacheTTL: GetDurationEnv("KB_CACHE_TTL", 0),
			Strict:   GetBoolEnv("KB_STRICT", false),
		},
		LogLevel: GetStringEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica se os segredos obrigatórios estão presentes
func (c *Config) Validate() error {
	var missing []string
	if c.LLM.APIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if c.Datastore.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Datastore.Key == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Server.Port)
	}
	return nil
}

// Addr retorna o endereço de escuta em todas as interfaces
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetFloat32Env(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
