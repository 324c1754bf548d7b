package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AIAPIKey      string
	AIModel       string
	AIBaseURL     string
	DBPath        string
	PostgresDSN   string
	UseAgenticSQL bool
}

func GetConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return Config{
		Port:          getEnv("PORT", "9090"),
		AIAPIKey:      getEnv("AI_API_KEY", ""),
		AIModel:       getEnv("AI_MODEL", "gpt-5"),
		AIBaseURL:     getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
		DBPath:        getEnv("DB_PATH", "./data/badger"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		UseAgenticSQL: getEnv("USE_AGENTIC_SQL", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
