package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/config"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// The API serves JSON only, so everything can be locked down
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// HTTP Strict Transport Security (HSTS) - only if TLS is enabled
		if config.GetBool("server.tls_enabled") {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
