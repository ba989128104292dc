package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestIDKey = "requestId"
	ctxPhoneKey     = "phone"

	corsMaxAge = 10 * time.Minute
)

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}

// requestIDMiddleware reuses the caller's X-Request-ID or assigns a new one.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"request_id", requestID(c),
	)
}

// corsMiddleware lets browsers on the configured origins call the API.
// It returns nil when no origin is configured.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	if len(h.opts.AllowedOrigins) == 0 {
		return nil
	}
	return cors.New(cors.Config{
		AllowOrigins:     h.opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", adminSecretHeader, requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}

// phoneMiddleware authenticates a Bearer token and stores its phone in the context.
func (h *Handler) phoneMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		abortWithDetail(c, http.StatusUnauthorized, "missing Authorization header")
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		abortWithDetail(c, http.StatusUnauthorized, "invalid Authorization header format")
		return
	}

	phone, err := h.services.ParseToken(parts[1])
	if err != nil {
		abortWithDetail(c, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	c.Set(ctxPhoneKey, phone)
	c.Next()
}

// adminSecretMiddleware gates diagnostic routes on the X-Admin-Secret header.
// An empty configured secret disables them.
func (h *Handler) adminSecretMiddleware(c *gin.Context) {
	secret := h.opts.AdminSecret
	given := c.GetHeader(adminSecretHeader)
	if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
		h.log.Infow("admin_forbidden", "path", c.FullPath(), "request_id", requestID(c))
		abortWithDetail(c, http.StatusForbidden, msgForbidden)
		return
	}
	c.Next()
}
