package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ride_hailing/internal/models"
)

const claimsKey = "claims"

// Claims is the payload of an access token.
type Claims struct {
	ID         uint   `json:"id"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	IsApproved bool   `json:"isApproved"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 access tokens with a fixed lifetime.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWT) GenerateToken(user *models.User, role string) (string, error) {
	now := j.now()
	claims := Claims{
		ID:         user.ID,
		Phone:      user.Phone,
		Role:       role,
		IsApproved: user.IsApproved,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWT) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireAuth ensures a valid JWT is present
func (j *JWT) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := j.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Store claims in context for downstream handlers
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth; it rejects callers outside roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// RequireSelfOrRole lets the caller through when the :param path value is their
// own id, or when they hold role.
func RequireSelfOrRole(param, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if claims.Role == role {
			c.Next()
			return
		}
		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err == nil && uint(id) == claims.ID {
			c.Next()
			return
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// CurrentClaims returns the claims stored by RequireAuth.
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}
