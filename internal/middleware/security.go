package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/pkg/config"
)

// Origins allowed in development in addition to ALLOWED_ORIGINS
var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
	"http://127.0.0.1:8080",
}

// Content types accepted on requests with a body
var allowedContentTypes = []string{
	"application/json",
	"text/csv",
}

var suspiciousUserAgents = []string{
	"sqlmap",
	"nikto",
	"nmap",
	"masscan",
	"<script",
	"javascript:",
}

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")

		// Scores are computed per request and must not be cached by intermediaries
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing with environment-based configuration
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	for _, origin := range cfg.GetAllowedOrigins() {
		allowed[origin] = struct{}{}
	}
	if cfg.IsDevelopment() {
		for _, origin := range developmentOrigins {
			allowed[origin] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if _, ok := allowed[origin]; ok && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Requested-With")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// InputValidationMiddleware limits the body size and rejects malformed or suspicious requests
func InputValidationMiddleware(maxRequestSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxRequestSize > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)
		}

		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": "Content-Type header is required",
				})
				return
			}

			if !hasAnyPrefix(strings.ToLower(contentType), allowedContentTypes) {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"error":         "Unsupported content type",
					"allowed_types": allowedContentTypes,
				})
				return
			}
		}

		userAgent := c.GetHeader("User-Agent")
		if userAgent == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "User-Agent header is required",
			})
			return
		}

		userAgentLower := strings.ToLower(userAgent)
		for _, pattern := range suspiciousUserAgents {
			if strings.Contains(userAgentLower, pattern) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "Request blocked for security reasons",
				})
				return
			}
		}

		c.Next()
	}
}

// Idle client buckets are dropped once they have not been used for limiterIdleTTL.
// The sweep runs inline at most once per limiterSweepInterval.
const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
	logger    logger.Logger
}

// NewIPRateLimiter allows requestsPerMinute per client, with bursts of the same size
func NewIPRateLimiter(requestsPerMinute int, log logger.Logger) *IPRateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &IPRateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    requestsPerMinute,
		now:      time.Now,
		logger:   log,
	}
}

func (l *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterSweepInterval {
		l.sweep(now)
	}

	client, ok := l.limiters[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

// sweep removes idle buckets. Callers hold mu.
func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, client := range l.limiters {
		if now.Sub(client.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

// clients returns the number of tracked client buckets
func (l *IPRateLimiter) clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware rejects requests once the client's bucket is empty
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.limiterFor(ip).Allow() {
			l.logger.Warn("Rate limit exceeded", "client_ip", ip, "path", c.Request.URL.Path)
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": "60",
			})
			return
		}
		c.Next()
	}
}

// RateLimitingMiddleware is a per-IP limiter built from the configured requests per minute
func RateLimitingMiddleware(requestsPerMinute int, log logger.Logger) gin.HandlerFunc {
	return NewIPRateLimiter(requestsPerMinute, log).Middleware()
}

// LoggingMiddleware logs every request, and warns on client and server errors
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []interface{}{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if c.Writer.Status() >= http.StatusBadRequest {
			log.Warn("Request failed", fields...)
			return
		}
		log.Info("Request handled", fields...)
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
