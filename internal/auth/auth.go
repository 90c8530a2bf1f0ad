// Package auth resolves the optional viewer identity from bearer tokens.
// The featured endpoints are public: a missing or invalid token means an
// anonymous viewer, never a rejected request.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/driftnote/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ViewerIDKey is the gin context key carrying the resolved viewer ID
const ViewerIDKey = "viewer_id"

// Service issues and validates viewer tokens
type Service struct {
	jwtSecret []byte
}

// NewService creates an auth service with the signing secret
func NewService(jwtSecret []byte) *Service {
	return &Service{jwtSecret: jwtSecret}
}

// GenerateToken signs a token for a user ID, valid for 30 days
func (s *Service) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken validates a token string and returns the user ID it carries
func (s *Service) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return sub, nil
}

// OptionalViewerMiddleware resolves the viewer from an Authorization
// bearer token when present. Absent or malformed tokens leave the request
// anonymous rather than failing it.
func (s *Service) OptionalViewerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			c.Next()
			return
		}

		userID, err := s.ParseToken(tokenString)
		if err != nil {
			logger.Log.Debug("ignoring invalid bearer token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(ViewerIDKey, userID)
		c.Next()
	}
}

// ViewerID returns the resolved viewer ID, or "" for anonymous requests
func ViewerID(c *gin.Context) string {
	return c.GetString(ViewerIDKey)
}
