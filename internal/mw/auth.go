package mw

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/auth"
	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/policy"
)

// callerKey is the gin context key holding the authenticated *model.User.
const callerKey = "caller"

// UserLoader resolves the user a token was issued to.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// Auth authenticates requests carrying an "Authorization: Bearer <access>" header.
// Requests without the header pass through anonymously; Require decides whether that is acceptable.
func Auth(tokens *auth.TokenIssuer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			abortWith(c, apperr.Unauthorized("Authorization header must contain a Bearer token"))
			return
		}

		claims, err := tokens.Parse(tokenString, auth.AccessToken)
		if err != nil {
			abortWith(c, apperr.Unauthorized("Given token not valid for any token type"))
			return
		}

		user, err := users.GetUser(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			abortWith(c, apperr.Unauthorized("User not found"))
			return
		}

		c.Set(callerKey, user)
		c.Next()
	}
}

// Require enforces p against the caller set by Auth.
func Require(p policy.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p(Caller(c)); err != nil {
			if appErr, ok := apperr.As(err); ok {
				abortWith(c, appErr)
				return
			}
			abortWith(c, apperr.Internal("policy failed", err))
			return
		}
		c.Next()
	}
}

// Caller returns the authenticated user, or nil for anonymous requests.
func Caller(c *gin.Context) *model.User {
	if v, ok := c.Get(callerKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// SetCaller stores u as the authenticated user of the request.
func SetCaller(c *gin.Context, u *model.User) {
	c.Set(callerKey, u)
}

func abortWith(c *gin.Context, err *apperr.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus(), err.Body())
}
