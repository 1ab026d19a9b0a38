package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		origins   string
		expectNil bool
	}{
		{name: "Disabled", enabled: false, origins: "https://app.example.com", expectNil: true},
		{name: "EnabledWithoutOrigins", enabled: true, origins: "", expectNil: true},
		{name: "EnabledWithOnlySeparators", enabled: true, origins: " , ,", expectNil: true},
		{name: "EnabledWithOrigins", enabled: true, origins: "https://app.example.com, https://admin.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := createCORSMiddleware(tt.enabled, tt.origins, discardLogger())
			if tt.expectNil {
				assert.Nil(t, middleware)
			} else {
				assert.NotNil(t, middleware)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"https://app.example.com", "https://admin.example.com"},
		parseOrigins(" https://app.example.com ,,https://admin.example.com "),
	)
}

func newCORSRouter(enabled bool) *gin.Engine {
	router := gin.New()
	if middleware := createCORSMiddleware(enabled, "https://app.example.com", discardLogger()); middleware != nil {
		router.Use(middleware)
	}
	router.GET("/v1/api-keys", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []string{}})
	})
	router.POST("/v1/api-keys", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})
	return router
}

func TestCORSIntegration(t *testing.T) {
	t.Run("Success_AllowedOrigin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/api-keys", nil)
		req.Header.Set("Origin", "https://app.example.com")
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Success_NoHeadersWhenDisabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/api-keys", nil)
		req.Header.Set("Origin", "https://app.example.com")
		newCORSRouter(false).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Error_DisallowedOrigin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/api-keys", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Success_Preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/api-keys", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})
}
