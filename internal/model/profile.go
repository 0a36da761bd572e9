package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	PlanFree    = "free"
	PlanStarter = "starter"
	PlanPro     = "pro"
)

type Profile struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	Plan             string     `json:"plan"`
	SubscriptionEnd  *time.Time `json:"subscriptionEnd,omitempty"`
	GenerationsCount int        `json:"generationsCount"`
}

// IsAdmin reports whether p is an administrator. A nil profile is not.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// HasPremiumAccess reports whether p may open slides, tutorials and courses.
func (p *Profile) HasPremiumAccess() bool {
	if p == nil {
		return false
	}
	return p.Role == RoleAdmin || p.Plan == PlanStarter || p.Plan == PlanPro
}
