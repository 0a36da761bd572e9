package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/go-playground/assert/v2"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

type fakeProfiles struct {
	profiles map[string]*model.Profile
	calls    int
	err      error
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	assert.Equal(t, nil, err)
	return s
}

func validClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  sub,
		"role": "authenticated",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func TestResolve(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*model.Profile{
		"u1": {ID: "u1", Role: model.RoleAdmin, Plan: model.PlanFree},
	}}
	r := NewResolver(testSecret, profiles)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("u1"))

	p, err := r.Resolve(context.Background(), "Bearer "+token)
	assert.Equal(t, nil, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, true, p.IsAdmin())

	_, _ = r.Resolve(context.Background(), "Bearer "+token)
	assert.Equal(t, 1, profiles.calls)
}

func TestResolve_NoHeader(t *testing.T) {
	r := NewResolver(testSecret, &fakeProfiles{})

	p, err := r.Resolve(context.Background(), "")

	assert.Equal(t, nil, err)
	assert.Equal(t, true, p == nil)
}

func TestResolve_InvalidTokens(t *testing.T) {
	r := NewResolver(testSecret, &fakeProfiles{})

	expired := validClaims("u1")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExp := jwt.MapClaims{"sub": "u1"}
	noSub := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signToken(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims("u1"))},
		{name: "wrong algorithm", token: signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims("u1"))},
		{name: "expired", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{name: "no expiry", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExp)},
		{name: "no subject", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noSub)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), "Bearer "+tt.token)
			assert.Equal(t, true, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestResolve_UnknownUser(t *testing.T) {
	r := NewResolver(testSecret, &fakeProfiles{profiles: map[string]*model.Profile{}})
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("ghost"))

	p, err := r.Resolve(context.Background(), "Bearer "+token)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, p == nil)
}

func TestHandleEvent(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*model.Profile{
		"u1": {ID: "u1", Role: model.RoleUser, Plan: model.PlanFree},
	}}
	r := NewResolver(testSecret, profiles)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("u1"))
	ctx := context.Background()

	p, _ := r.Resolve(ctx, "Bearer "+token)
	assert.Equal(t, model.PlanFree, p.Plan)

	profiles.profiles["u1"].Plan = model.PlanPro
	assert.Equal(t, nil, r.HandleEvent(ctx, Event{Type: EventUserUpdated, UserID: "u1"}))

	p, _ = r.Resolve(ctx, "Bearer "+token)
	assert.Equal(t, model.PlanPro, p.Plan)

	assert.Equal(t, nil, r.HandleEvent(ctx, Event{Type: EventSignedOut, UserID: "u1"}))
	calls := profiles.calls
	_, _ = r.Resolve(ctx, "Bearer "+token)
	assert.Equal(t, calls+1, profiles.calls)
}

func TestDemoResolver(t *testing.T) {
	p, err := NewDemoResolver(true).Resolve(context.Background(), "")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, p.IsAdmin())

	p, err = NewDemoResolver(false).Resolve(context.Background(), "Bearer whatever")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, p == nil)
}
