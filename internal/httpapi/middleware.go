package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"recruiting-platform/internal/auth"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/common/metrics"
	"recruiting-platform/internal/models"
)

const sessionContextKey = "session"

// RequestLogger logs each request with latency and status.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		}).Info("Request handled")
	}
}

// Metrics records Prometheus counters and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, c.Request.Method,
			strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// RequireSession resolves the session token and aborts unauthenticated
// requests. The token comes from the Authorization bearer header or the
// session cookie.
func (s *Server) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		session, err := s.auth.Validate(c.Request.Context(), token)
		if err != nil {
			s.errors.Respond(c, err)
			c.Abort()
			return
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// RequireAdmin aborts requests whose session is not an admin account. Must
// run after RequireSession.
func (s *Server) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		if session == nil || session.Role != models.RoleAdmin {
			s.errors.Respond(c, apperrors.NewForbiddenError("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("session_token"); err == nil {
		return cookie
	}
	return ""
}

func currentSession(c *gin.Context) *auth.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, ok := value.(*auth.Session)
	if !ok {
		return nil
	}
	return session
}
