package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context key for the authenticated username.
const ContextUsernameKey = "username"

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.generateJWT.
type jwtClaims struct {
	Username string `json:"uname"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.Username == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// getUsernameFromContext returns the authenticated username (set by
// AuthMiddleware).
func getUsernameFromContext(c *gin.Context) (string, error) {
	raw, exists := c.Get(ContextUsernameKey)
	if !exists {
		return "", errors.New("username not found in context")
	}
	username, ok := raw.(string)
	if !ok {
		return "", errors.New("invalid username type in context")
	}
	return username, nil
}

// authorizedUsername resolves the username a mutating request acts on. The
// request body names a username and the token must agree with it: the core
// guards against forged requests even though the client always sends its
// own name.
func authorizedUsername(c *gin.Context, bodyUsername string) (string, bool) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return "", false
	}
	if bodyUsername != "" && bodyUsername != username {
		abortWithError(c, http.StatusUnauthorized, "Token does not match the requested user")
		return "", false
	}
	return username, true
}
