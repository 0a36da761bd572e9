package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

type ProfileSource interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
}

// Resolver turns bearer tokens into profiles. Profiles are cached per user until
// an auth event refreshes or evicts them.
type Resolver struct {
	secret   []byte
	profiles ProfileSource
	demo     *model.Profile

	mu    sync.RWMutex
	cache map[string]*model.Profile
}

func NewResolver(secret string, profiles ProfileSource) *Resolver {
	return &Resolver{
		secret:   []byte(secret),
		profiles: profiles,
		cache:    make(map[string]*model.Profile),
	}
}

// NewDemoResolver is used in local mode, where no auth backend exists. With admin
// set every request is treated as the in-memory admin; otherwise nobody is signed in.
func NewDemoResolver(admin bool) *Resolver {
	r := &Resolver{cache: make(map[string]*model.Profile)}
	if admin {
		r.demo = &model.Profile{
			ID:    "local-admin",
			Email: "admin@localhost",
			Role:  model.RoleAdmin,
			Plan:  model.PlanPro,
		}
	}
	return r
}

// Resolve returns the profile for an Authorization header value. An absent header
// yields nil, nil (unauthenticated).
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*model.Profile, error) {
	if r.demo != nil {
		p := *r.demo
		return &p, nil
	}

	token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	if token == "" || r.profiles == nil {
		return nil, nil
	}

	userID, err := r.UserID(token)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	cached, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok {
		p := *cached
		return &p, nil
	}

	return r.load(ctx, userID)
}

// UserID verifies an HS256 access token and returns its subject.
func (r *Resolver) UserID(token string) (string, error) {
	if len(r.secret) == 0 {
		return "", fmt.Errorf("no signing secret configured: %w", ErrInvalidToken)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject: %w", ErrInvalidToken)
	}
	return sub, nil
}

// HandleEvent keeps the profile cache in step with auth events.
func (r *Resolver) HandleEvent(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventSignedIn, EventUserUpdated:
		_, err := r.load(ctx, ev.UserID)
		return err
	case EventSignedOut:
		r.Evict(ev.UserID)
	}
	return nil
}

func (r *Resolver) Evict(userID string) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

func (r *Resolver) load(ctx context.Context, userID string) (*model.Profile, error) {
	if r.profiles == nil {
		return nil, nil
	}

	p, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	r.mu.Lock()
	if p == nil {
		delete(r.cache, userID)
	} else {
		r.cache[userID] = p
	}
	r.mu.Unlock()
	return p, nil
}
