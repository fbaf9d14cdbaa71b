package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"auth-gateway/internal/logger"
	"auth-gateway/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *session.MemoryStore) {
	t.Helper()

	store := session.NewMemoryStore()
	r := gin.New()
	r.GET("/private", GinRequireSession(NewSessionMiddleware(store)), func(c *gin.Context) {
		id, ok := SessionIDFromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"sessionId": id})
	})
	return r, store
}

func TestGinRequireSession(t *testing.T) {
	r, store := newRouter(t)
	id, err := store.Create(context.Background(), session.Session{KeywordValid: true})
	require.NoError(t, err)

	tests := []struct {
		name     string
		target   string
		cookie   string
		wantCode int
	}{
		{name: "query", target: "/private?sessionId=" + id, wantCode: http.StatusOK},
		{name: "cookie", target: "/private", cookie: id, wantCode: http.StatusOK},
		{name: "missing", target: "/private", wantCode: http.StatusUnauthorized},
		{name: "unknown", target: "/private?sessionId=nope", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusUnauthorized {
				require.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			} else {
				require.JSONEq(t, `{"sessionId":"`+id+`"}`, w.Body.String())
			}
		})
	}
}

func TestRequestLogger_OmitsQuery(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/profile", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile?sessionId=secret-id", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Contains(t, buf.String(), `"path":"/profile"`)
	require.Contains(t, buf.String(), `"status":204`)
	require.NotContains(t, buf.String(), "secret-id")
}
