package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ErrAuthInvalid is what every identity failure collapses into; callers
// never learn why a credential was rejected
var ErrAuthInvalid = errors.New("invalid credentials")

// IdentityProvider turns a bearer credential into a verified subject.
// The rest of the app trusts whatever it returns and never parses
// tokens itself
type IdentityProvider interface {
	Verify(credential string) (userID, email string, err error)
}

// JWTIdentity verifies HS256 JWTs minted by the external auth service
type JWTIdentity struct {
	secret []byte
}

func NewJWTIdentity() *JWTIdentity {
	return &JWTIdentity{
		secret: []byte(viper.GetString("auth.jwt_secret")),
	}
}

func (j *JWTIdentity) Verify(credential string) (string, string, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return j.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrAuthInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrAuthInvalid
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", "", ErrAuthInvalid
	}

	// Email is informational; a missing claim is not a failure
	email, _ := claims["email"].(string)

	return userID, email, nil
}

// NewAuthMiddleware guards owner routes. It pulls the bearer credential
// from the Authorization header (or the auth_token cookie as a browser
// fallback) and stores the verified identity on the request context
func NewAuthMiddleware(idp IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		credential := bearerToken(c)
		if credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Missing credentials",
				"requestID": requestID,
			})
			return
		}

		userID, email, err := idp.Verify(credential)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})

			zap.L().Debug("Credential rejected", zap.String("requestID", requestID), zap.Error(err))
			return
		}

		c.Set("userID", userID)
		c.Set("userEmail", email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := c.Cookie("auth_token")
	if err != nil {
		return ""
	}

	return cookie
}
