package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// Authenticator accepts requests carrying a bearer JWT signed with secret
// using HS256. The subject claim, when present, is stored under "subject".
func Authenticator(secret []byte) gin.HandlerFunc {
	log := zap.S().Named("auth")
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil {
			log.Debugw("rejected token", "error", err, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if claims.Subject != "" {
			c.Set("subject", claims.Subject)
		}
		c.Next()
	}
}
