package middleware

import (
	"errors"
	"fmt"
	"strings"

	"storefront-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys
const (
	ContextKeyUserID          = "user_id"
	ContextKeyIsAuthenticated = "is_authenticated"
)

// AuthMiddleware - route bắt buộc đăng nhập (address book)
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Unauthenticated.")
			c.Abort()
			return
		}

		// 2. Verify JWT và lấy user_id
		userID, err := VerifyToken(token, jwtSecret)
		if err != nil {
			response.Unauthorized(c, "Unauthenticated.")
			c.Abort()
			return
		}

		// 3. Set userID vào context
		c.Set(ContextKeyIsAuthenticated, true)
		c.Set(ContextKeyUserID, userID)

		c.Next()
	}
}

// OptionalAuthMiddleware cho cart / wishlist: token hợp lệ → user, còn lại → anonymous.
// Không bao giờ trả lỗi.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyIsAuthenticated, false)

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		userID, err := VerifyToken(token, jwtSecret)
		if err != nil {
			// Token invalid/expired → anonymous
			c.Next()
			return
		}

		c.Set(ContextKeyIsAuthenticated, true)
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetAuthenticatedUserID retrieves user ID if user is authenticated
// Returns: (userID, true) if authenticated, (nil, false) if anonymous
func GetAuthenticatedUserID(c *gin.Context) (*uuid.UUID, bool) {
	if !c.GetBool(ContextKeyIsAuthenticated) {
		return nil, false
	}

	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return nil, false
	}

	uid, ok := value.(uuid.UUID)
	if !ok {
		return nil, false
	}
	return &uid, true
}

// VerifyToken verify HS256 token và trả về claim user_id
func VerifyToken(tokenString string, secret string) (uuid.UUID, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok || userIDStr == "" {
		return uuid.Nil, errors.New("missing user_id claim")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id claim: %w", err)
	}
	return userID, nil
}

// Expected format: "Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
