package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crosti/buyerform/pkg/logger"
)

func requestIDRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		fromCtx, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c), "ctx": fromCtx})
	})
	return router
}

func TestRequestIDMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	requestIDRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	responseID := w.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("Expected a generated uuid, got %q", responseID)
	}
	if !strings.Contains(w.Body.String(), `"ctx":"`+responseID+`"`) {
		t.Errorf("Expected request context to carry the id, got %s", w.Body.String())
	}
}

func TestRequestIDMiddlewareWithExistingID(t *testing.T) {
	existingID := "existing-request-id-123"
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(HeaderRequestID, existingID)
	w := httptest.NewRecorder()

	requestIDRouter().ServeHTTP(w, req)

	if got := w.Header().Get(HeaderRequestID); got != existingID {
		t.Errorf("Expected request ID '%s', got '%s'", existingID, got)
	}
}

func TestRequestIDMiddlewareRejectsMalformedID(t *testing.T) {
	for _, bad := range []string{"has spaces", "new\nline", strings.Repeat("a", 129)} {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(HeaderRequestID, bad)
		w := httptest.NewRecorder()

		requestIDRouter().ServeHTTP(w, req)

		if got := w.Header().Get(HeaderRequestID); got == bad {
			t.Errorf("Expected malformed id %q to be replaced", bad)
		}
	}
}

func TestGetRequestIDEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if requestID := GetRequestID(c); requestID != "" {
		t.Errorf("Expected empty string, got '%s'", requestID)
	}
}
