package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-navigator/infrastruture/token"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextOperatorClaims is the key used to store token claims in the Gin context.
	ContextOperatorClaims = "operatorClaims"
	// ContextOperatorName is the key used to store the authenticated operator's name.
	ContextOperatorName = "operatorName"
)

// Authoriz rejects requests without a valid bearer token issued to an operator.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		name, ok := token.OperatorName(claims)
		if !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(ContextOperatorClaims, claims)
		c.Set(ContextOperatorName, name)
		c.Next()
	}
}
