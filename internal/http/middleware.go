package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/services"
	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/storage"
)

const (
	sessionCookieName = "session"
	sessionContextKey = "sessionID"
)

var allowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:8080",
}

func CORS() gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}
	return cors.New(config)
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		log.Printf("%s %s %d %s", c.Request.Method, c.FullPath(), c.Writer.Status(), duration)
	}
}

func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// SessionCookie resolves the caller's session from a signed cookie,
// minting a new session when the cookie is missing, forged, or names an
// expired session. The cookie carries only the identifier; all content
// stays server-side.
func SessionCookie(store *storage.SessionStore, signer *services.Signer, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if raw, err := c.Cookie(sessionCookieName); err == nil {
			if parsed, ok := signer.Parse(raw); ok && store.Valid(parsed) {
				id = parsed
			}
		}

		if id == "" {
			id = store.NewSession()
		}

		c.SetCookie(sessionCookieName, signer.Sign(id), int(ttl.Seconds()), "/", "", false, true)
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
