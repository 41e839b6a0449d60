package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey      string
	GeminiModel       string
	ImageAPIURL       string
	ImageAPIKey       string
	ImageModel        string
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	DatabaseURL       string
	HTTPPort          string
	LogLevel          string
	JWTSecret         string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		ImageAPIURL:       getEnv("IMAGE_API_URL", "https://ark.cn-beijing.volces.com/api/v3/images/generations"),
		ImageAPIKey:       getEnv("IMAGE_API_KEY", ""),
		ImageModel:        getEnv("IMAGE_MODEL", "doubao-seedream-4.0"),
		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		DatabaseURL:       getEnv("DATABASE_URL", "mythos.db"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
	}

	// An absent text credential is not an error: the whole service keeps
	// working and answers every request with the deterministic demo story.
	if AppConfig.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set, running in demo mode")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
