package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port             string
	Origin           string
	Environment      string
	JWTSecret        string
	TokenExpiryDays  int
	Database         DatabaseConfig
	Gemini           GeminiConfig
	StaticDir        string
	ChatHistoryLimit int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// GeminiConfig holds the external text-generation model configuration
type GeminiConfig struct {
	APIKey string
	Model  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "school_clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	geminiConfig := GeminiConfig{
		APIKey: getEnv("GOOGLE_API_KEY", ""),
		Model:  getEnv("GEMINI_MODEL", "gemma-3-12b-it"),
	}

	tokenExpiryDays, err := strconv.Atoi(getEnv("TOKEN_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_EXPIRY_DAYS: %w", err)
	}

	historyLimit, err := strconv.Atoi(getEnv("CHAT_HISTORY_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_HISTORY_LIMIT: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:             getEnv("PORT", "8000"),
		Origin:           getEnv("ORIGIN", "*"),
		Environment:      getEnv("APP_ENV", "development"),
		JWTSecret:        getEnv("SECRET_KEY", "your-secret-key-change-in-production"),
		TokenExpiryDays:  tokenExpiryDays,
		Database:         dbConfig,
		Gemini:           geminiConfig,
		StaticDir:        getEnv("STATIC_DIR", "./web"),
		ChatHistoryLimit: historyLimit,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
