package extraction

import (
	"strings"
	"time"
)

const (
	// DefaultRetryAttempts количество попыток вызова AI по умолчанию
	DefaultRetryAttempts = 3
	// DefaultRetryDelay начальная задержка между попытками
	DefaultRetryDelay = 500 * time.Millisecond
	// MaxRetryDelay максимальная задержка между попытками
	MaxRetryDelay = 8 * time.Second
)

// RetryConfig конфигурация повторных попыток вызова AI
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64 // Множитель экспоненциальной задержки
}

// DefaultRetryConfig возвращает конфигурацию retry по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultRetryAttempts,
		InitialDelay: DefaultRetryDelay,
		MaxDelay:     MaxRetryDelay,
		Multiplier:   2.0,
	}
}

// IsRetryableError проверяет, имеет ли смысл повторять вызов при данной ошибке.
// Повторяем только транзиентные сбои: таймауты, сетевые ошибки, rate limit,
// ошибки сервера. Ошибки формата ответа не повторяем - модель уже ответила.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryableErrors := []string{
		"timeout",
		"deadline exceeded",
		"connection",
		"temporary",
		"network",
		"rate limit",
		"too many requests",
		"status 429",
		"server error",
	}

	for _, retryable := range retryableErrors {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}

	return false
}

// NextDelay вычисляет следующую задержку с экспоненциальным ростом и потолком
func (rc RetryConfig) NextDelay(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * rc.Multiplier)
	if next > rc.MaxDelay {
		next = rc.MaxDelay
	}
	return next
}
