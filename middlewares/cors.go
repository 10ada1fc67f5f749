package middlewares

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// CORSMiddlewares mengizinkan frontend kantin (portal karyawan + dashboard
// dapur) mengakses API. Origin diambil dari CORS_ORIGIN supaya deployment
// staging/production tidak perlu rebuild.
func CORSMiddlewares() gin.HandlerFunc {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://127.0.0.1:5500"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-Requested-With, Sec-WebSocket-Protocol, Sec-WebSocket-Version, Sec-WebSocket-Key, Upgrade")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			// Preflight untuk handshake websocket dashboard dapur.
			if c.GetHeader("Upgrade") == "websocket" {
				c.Writer.Header().Set("Connection", "Upgrade")
				c.Writer.Header().Set("Upgrade", "websocket")
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
