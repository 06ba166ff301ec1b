package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// API hanya mengembalikan JSON, PDF invoice dan gambar produk dari /uploads
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'none'",
	"img-src 'self' data:",
	"frame-ancestors 'none'",
	"base-uri 'none'",
	"form-action 'none'",
}, "; ")

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Cross-Origin-Resource-Policy", "cross-origin")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		// Lokasi boleh dipakai frontend untuk koordinat pengiriman
		h.Set("Permissions-Policy", "geolocation=(self), microphone=(), camera=()")

		c.Next()
	}
}
