package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Cache    CacheConfig
	Uploads  UploadsConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	SerpApi     string
	RapidApi    string
	MistralOcr  string
	OpenAi      string
	CatalogHost string
	VinHost     string
}

type AIConfig struct {
	LLMProvider   string // "openai" or "ollama"
	LLMModel      string // e.g. "gpt-4.1", "llama3"
	OllamaBaseURL string
}

type CacheConfig struct {
	Backend  string // "memory" or "redis"
	RedisURL string
	TTLHours int
}

type UploadsConfig struct {
	Dir string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			SerpApi:     getEnv("SERPAPI_KEY", ""),
			RapidApi:    getEnv("RAPIDAPI_KEY", ""),
			MistralOcr:  getEnv("MISTRAL_API_KEY", ""),
			OpenAi:      getEnv("OPENAI_API_KEY", ""),
			CatalogHost: getEnv("CATALOG_API_HOST", "auto-parts-catalog.p.rapidapi.com"),
			VinHost:     getEnv("VIN_API_HOST", "tecdoc-catalog.p.rapidapi.com"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4.1"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Cache: CacheConfig{
			Backend:  getEnv("API_CACHE_BACKEND", "memory"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			TTLHours: getEnvAsInt("API_CACHE_TTL_HOURS", 24),
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOADS_DIR", "./uploads"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
