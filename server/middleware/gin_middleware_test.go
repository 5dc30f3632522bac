package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestGinRequestIDMiddleware(t *testing.T) {
	t.Run("Generates request ID", func(t *testing.T) {
		router := setupTestRouter()
		router.Use(GinRequestIDMiddleware())
		var gotID string
		router.GET("/test", func(c *gin.Context) {
			gotID = GetRequestIDFromGin(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if gotID == "" {
			t.Error("request ID was not set in context")
		}
		if w.Header().Get("X-Request-ID") != gotID {
			t.Errorf("X-Request-ID header = %s, want %s", w.Header().Get("X-Request-ID"), gotID)
		}
	})

	t.Run("Preserves incoming request ID", func(t *testing.T) {
		router := setupTestRouter()
		router.Use(GinRequestIDMiddleware())
		router.GET("/test", func(c *gin.Context) {
			// Request ID также прокидывается в context.Context запроса
			if GetRequestID(c.Request.Context()) != "client-id-123" {
				t.Errorf("context request ID = %s, want client-id-123", GetRequestID(c.Request.Context()))
			}
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "client-id-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("X-Request-ID") != "client-id-123" {
			t.Errorf("X-Request-ID = %s, want client-id-123", w.Header().Get("X-Request-ID"))
		}
	})
}

func TestGinCORSMiddleware(t *testing.T) {
	router := setupTestRouter()
	router.Use(GinCORSMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("Sets CORS headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("Allow-Origin = %s, want *", w.Header().Get("Access-Control-Allow-Origin"))
		}
	})

	t.Run("OPTIONS preflight returns 204", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})
}

func TestGinRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter()
	router.Use(GinRequestIDMiddleware(), GinRecoveryMiddleware())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
