package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"

	"github.com/gin-gonic/gin"
)

const (
	profileKey = "profile"
	// tokenCookie lets server-rendered pages see the browser session.
	tokenCookie = "access_token"
)

type ProfileResolver interface {
	Resolve(ctx context.Context, authorization string) (*model.Profile, error)
}

// Authenticate resolves the caller's profile and stores it on the context. An
// invalid or unknown token leaves the caller anonymous.
func Authenticate(resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			if token, err := c.Cookie(tokenCookie); err == nil && token != "" {
				header = "Bearer " + token
			}
		}

		p, err := resolver.Resolve(c.Request.Context(), header)
		if err != nil {
			slog.Warn("error resolving session", "error", err)
		}
		if p != nil {
			c.Set(profileKey, p)
		}
		c.Next()
	}
}

func profileFrom(c *gin.Context) *model.Profile {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	p, _ := v.(*model.Profile)
	return p
}

// RequireAdmin rejects every caller whose profile role is not exactly admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shell.CanAccessAdmin(profileFrom(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}
