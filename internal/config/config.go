package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера импорта прайс-листов
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных
	DatabasePath    string        `json:"database_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// AI конфигурация
	AIAPIKey  string        `json:"ai_api_key"`
	AIModel   string        `json:"ai_model"`
	AIBaseURL string        `json:"ai_base_url"`
	AITimeout time.Duration `json:"ai_timeout"`

	// Извлечение
	RetryAttempts   int     `json:"retry_attempts"`
	ConfidenceFloor float64 `json:"confidence_floor"`
	Workers         int     `json:"workers"`
	ChunkSize       int     `json:"chunk_size"`

	// Дубликаты
	SimilarityThreshold float64 `json:"similarity_threshold"`
	DuplicatePolicy     string  `json:"duplicate_policy"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		// Сервер
		Port: getEnv("SERVER_PORT", "8080"),

		// База данных
		DatabasePath:    getEnv("DATABASE_PATH", "pricing.db"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		// AI конфигурация
		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIModel:   getEnv("AI_MODEL", "openai/gpt-4o-mini"),
		AIBaseURL: getEnv("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AITimeout: getEnvDuration("AI_TIMEOUT", 60*time.Second),

		// Извлечение
		RetryAttempts:   getEnvInt("EXTRACTION_RETRY_ATTEMPTS", 3),
		ConfidenceFloor: getEnvFloat("EXTRACTION_CONFIDENCE_FLOOR", 0.3),
		Workers:         getEnvInt("EXTRACTION_WORKERS", 4),
		ChunkSize:       getEnvInt("EXTRACTION_CHUNK_SIZE", 5),

		// Дубликаты
		SimilarityThreshold: getEnvFloat("DEDUP_SIMILARITY_THRESHOLD", 0.88),
		DuplicatePolicy:     getEnv("DEDUP_DUPLICATE_POLICY", "skip_existing"),
	}

	// Валидация
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
