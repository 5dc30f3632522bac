package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pricelist/importer"
)

// AIExtractor клиент извлечения строк прайс-листа через chat-completion API
// (OpenRouter-совместимый). Недетерминированный внешний коллаборатор:
// повторяет транзиентные сбои с экспоненциальной задержкой, ограничивает
// частоту запросов и ни одно поле ответа не считает доверенным.
type AIExtractor struct {
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryConfig RetryConfig
}

// AIExtractorConfig конфигурация клиента извлечения
type AIExtractorConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	RateLimit   rate.Limit
	RetryConfig RetryConfig
}

// NewAIExtractor создает новый AI-клиент извлечения
func NewAIExtractor(config AIExtractorConfig) *AIExtractor {
	if config.BaseURL == "" {
		config.BaseURL = "https://openrouter.ai/api/v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(time.Second) // 1 запрос в секунду
	}
	if config.RetryConfig.MaxAttempts == 0 {
		config.RetryConfig = DefaultRetryConfig()
	}

	// HTTP Transport с connection pooling
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &AIExtractor{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		limiter:     rate.NewLimiter(config.RateLimit, 1),
		retryConfig: config.RetryConfig,
	}
}

// chatRequest тело запроса chat-completion API
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse тело ответа chat-completion API
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract извлекает структурированные записи из пачки сырых строк.
// Возвращает срез той же длины, что и rows: nil в позиции означает
// "извлечение не удалось" для этой строки (явный сигнал no extraction).
func (e *AIExtractor) Extract(ctx context.Context, rows []importer.RawRow, schema FieldSchema) ([]*ExtractedRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	prompt, err := buildExtractionPrompt(rows, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	response, err := e.callAI(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseExtractionResponse(response, rows)
}

// callAI вызывает chat-completion API с retry и rate limiting
func (e *AIExtractor) callAI(ctx context.Context, prompt string) (string, error) {
	systemPrompt := `Извлеки строки прайс-листа поставщика в JSON. ` +
		`Ответ - только JSON массив объектов, по одному на строку входа. ` +
		`Если строка не содержит товара, верни для нее null.`

	body, err := json.Marshal(chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", e.baseURL)

	var lastErr error
	delay := e.retryConfig.InitialDelay

	for attempt := 1; attempt <= e.retryConfig.MaxAttempts; attempt++ {
		if attempt > 1 {
			log.Printf("[Extraction] Retry attempt %d/%d after %v", attempt, e.retryConfig.MaxAttempts, delay)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay = e.retryConfig.NextDelay(delay)
		}

		// Ограничение частоты запросов к внешнему API
		if err := e.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", e.apiKey))
		req.Header.Set("Content-Type", "application/json")

		resp, err := e.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			log.Printf("[Extraction] Request failed: %v", lastErr)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = fmt.Errorf("failed to read response: %w", readErr)
				continue
			}
			var chatResp chatResponse
			if err := json.Unmarshal(respBody, &chatResp); err != nil {
				return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
			}
			if len(chatResp.Choices) == 0 {
				return "", fmt.Errorf("empty choices in AI response")
			}
			return chatResp.Choices[0].Message.Content, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limit: status 429")
			log.Printf("[Extraction] Rate limited, will retry")
			continue

		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			log.Printf("[Extraction] Server error %d, will retry", resp.StatusCode)
			continue

		default:
			// Клиентские ошибки не повторяем
			return "", fmt.Errorf("client error: status %d, body: %s", resp.StatusCode, string(respBody))
		}
	}

	return "", fmt.Errorf("all %d retry attempts failed: %w", e.retryConfig.MaxAttempts, lastErr)
}

// buildExtractionPrompt строит промпт: целевая схема плюс строки файла как JSON
func buildExtractionPrompt(rows []importer.RawRow, schema FieldSchema) (string, error) {
	var sb strings.Builder

	sb.WriteString("Поля: ")
	for i, field := range schema.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s (%s)", field.Name, field.Description))
	}
	sb.WriteString("\n\nСтроки:\n")

	for _, row := range rows {
		rowJSON, err := json.Marshal(row)
		if err != nil {
			return "", err
		}
		sb.Write(rowJSON)
		sb.WriteString("\n")
	}

	sb.WriteString("\nJSON массив, в каждом объекте position и confidence [0,1].")
	return sb.String(), nil
}

// parseExtractionResponse парсит ответ модели в записи, выровненные по rows.
// Ответ очищается от markdown-блоков; записи сопоставляются строкам по
// полю position, лишние и неизвестные позиции отбрасываются.
func parseExtractionResponse(response string, rows []importer.RawRow) ([]*ExtractedRecord, error) {
	response = stripMarkdownFences(response)

	var records []*ExtractedRecord
	if err := json.Unmarshal([]byte(response), &records); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w, response: %s", err, response)
	}

	byPosition := make(map[int]*ExtractedRecord, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		// Уверенность вне диапазона - ответ не считаем осмысленным
		if rec.Confidence < 0 || rec.Confidence > 1 {
			rec.Confidence = 0
		}
		byPosition[rec.Position] = rec
	}

	result := make([]*ExtractedRecord, len(rows))
	for i, row := range rows {
		result[i] = byPosition[row.Position]
	}
	return result, nil
}

// stripMarkdownFences очищает ответ модели от обрамляющих код-блоков
func stripMarkdownFences(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimSuffix(response, "```")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
		response = strings.TrimSuffix(response, "```")
	}
	return strings.TrimSpace(response)
}
