package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"pricelist/server/middleware"
)

// ErrorResponse структура ответа об ошибке
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// SendJSONResponse отправляет JSON ответ через Gin context
func SendJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendJSONError отправляет JSON ошибку через Gin context и логирует её
func SendJSONError(c *gin.Context, statusCode int, message string) {
	reqID := middleware.GetRequestIDFromGin(c)

	log.Printf("[HTTP] Error: %s, status=%d, request_id=%s, %s %s",
		message, statusCode, reqID, c.Request.Method, c.Request.URL.Path)

	c.JSON(statusCode, ErrorResponse{
		Error:   true,
		Message: message,
	})
}
