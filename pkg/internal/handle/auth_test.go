package handle_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/router"
)

func TestLogoutAcknowledges(t *testing.T) {
	gin.SetMode(gin.TestMode)

	e := gin.New()
	router.RegisterAuthRoutes(e.Group("/api/v1"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if !strings.Contains(w.Body.String(), "logged out") {
		t.Errorf("body = %q, want logout acknowledgment", w.Body.String())
	}
}
