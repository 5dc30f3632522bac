package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация базы данных
	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	// Валидация AI конфигурации
	if c.AIModel == "" {
		errors = append(errors, "AI model is required")
	}
	if c.AITimeout < time.Second {
		errors = append(errors, "AI timeout must be at least 1 second")
	}

	// Валидация параметров извлечения
	if c.RetryAttempts < 1 {
		errors = append(errors, "retry attempts must be at least 1")
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		errors = append(errors, fmt.Sprintf("confidence floor must be between 0.0 and 1.0, got %g", c.ConfidenceFloor))
	}
	if c.Workers < 1 {
		errors = append(errors, "workers must be at least 1")
	}
	if c.ChunkSize < 1 {
		errors = append(errors, "chunk size must be at least 1")
	}

	// Валидация параметров дубликатов
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		errors = append(errors, fmt.Sprintf("similarity threshold must be between 0.0 and 1.0, got %g", c.SimilarityThreshold))
	}
	validPolicies := []string{"skip_existing", "update_existing"}
	valid := false
	for _, policy := range validPolicies {
		if c.DuplicatePolicy == policy {
			valid = true
			break
		}
	}
	if !valid {
		errors = append(errors, fmt.Sprintf("invalid duplicate policy: %s (valid: %s)",
			c.DuplicatePolicy, strings.Join(validPolicies, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
