package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireSession adapts the net/http SessionMiddleware to Gin.
func GinRequireSession(m *SessionMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		m.RequireSession(next).ServeHTTP(c.Writer, c.Request)

		// the middleware already wrote the 401
		if !passed {
			c.Abort()
		}
	}
}
