package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return sessionMiddleware(secret, true)
}

// OptionalAuth attaches the session when a token is sent and lets anonymous
// requests through. A token that is sent but invalid is still rejected.
func OptionalAuth(secret string) gin.HandlerFunc {
	return sessionMiddleware(secret, false)
}

func sessionMiddleware(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// Expect: "Bearer token"
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		sess, err := ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// getSessionFromContext returns the session set by the auth middleware, or
// an anonymous session.
func getSessionFromContext(c *gin.Context) Session {
	v, exists := c.Get(sessionKey)
	if !exists {
		return Session{}
	}
	sess, _ := v.(Session)
	return sess
}
