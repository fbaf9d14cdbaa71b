package handler

import (
	"errors"
	"net/http"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/broker"
	"auth-gateway/internal/auth/keyword"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/auth/resolver"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/metrics"
	"auth-gateway/internal/middleware"
	"auth-gateway/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	keywords      *keyword.Authenticator
	broker        *broker.Broker
	resolver      *resolver.Resolver
	sessionStore  session.Store
	sessionGuard  gin.HandlerFunc
	cookieOptions session.CookieOptions
	metrics       *metrics.Metrics
}

func NewHandler(
	keywords *keyword.Authenticator,
	oauthBroker *broker.Broker,
	profileResolver *resolver.Resolver,
	sessionStore session.Store,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		keywords:     keywords,
		broker:       oauthBroker,
		resolver:     profileResolver,
		sessionStore: sessionStore,
		sessionGuard: middleware.GinRequireSession(middleware.NewSessionMiddleware(sessionStore)),
		// the frontends live on other origins
		cookieOptions: session.CookieOptions{SameSite: http.SameSiteNoneMode},
		metrics:       m,
	}
}

// RegisterRoutes mounts the gateway on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/check-keyword", h.checkKeyword)
	r.GET("/auth/:provider", h.sessionGuard, h.beginAuth)
	r.GET("/auth/:provider/callback", h.completeAuth)
	r.GET("/profile", h.sessionGuard, h.profile)
	r.GET("/logout", h.logout)
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

func (h *Handler) checkKeyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sessionID, err := h.keywords.Check(c.Request.Context(), req.Keyword)
	h.metrics.KeywordCheck(err == nil)
	if errors.Is(err, auth.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid keyword"})
		return
	}
	if err != nil {
		logger.Error("keyword session create failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	session.SetCookie(c.Writer, sessionID, h.cookieOptions)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": sessionID,
	})
}

func (h *Handler) beginAuth(c *gin.Context) {
	sessionID, _ := middleware.SessionIDFromContext(c.Request.Context())

	authURL, err := h.broker.Begin(c.Request.Context(), c.Param("provider"), sessionID)
	switch {
	case errors.Is(err, provider.ErrUnknownProvider):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown oauth provider"})
		return
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	case err != nil:
		logger.Error("oauth begin failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// completeAuth always answers with a redirect; failures were already
// logged by the broker.
func (h *Handler) completeAuth(c *gin.Context) {
	res := h.broker.Complete(
		c.Request.Context(),
		c.Param("provider"),
		c.Query("code"),
		session.IDFromRequest(c.Request),
	)

	c.Redirect(http.StatusFound, res.RedirectURL)
}

func (h *Handler) profile(c *gin.Context) {
	sessionID, _ := middleware.SessionIDFromContext(c.Request.Context())

	p, err := h.resolver.Resolve(c.Request.Context(), sessionID)
	if errors.Is(err, auth.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err != nil {
		logger.Error("profile lookup failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// logout is idempotent: unknown or missing ids still report success.
func (h *Handler) logout(c *gin.Context) {
	h.metrics.Logout()

	if sessionID := session.IDFromRequest(c.Request); sessionID != "" {
		// best-effort
		if err := h.sessionStore.Delete(c.Request.Context(), sessionID); err != nil {
			logger.Error("session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, h.cookieOptions)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
