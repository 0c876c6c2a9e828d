package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Profile is the per-user document stored next to the identity record.
type Profile struct {
	UserID    string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// EffectiveRole treats a missing role as a regular user.
func (p *Profile) EffectiveRole() Role {
	if p.Role == "" {
		return RoleUser
	}
	return p.Role
}

// ProfileUpdate is a partial overwrite; nil fields are kept. Role is not
// part of it on purpose and can only change through SetRole.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil
}

func (u ProfileUpdate) ApplyTo(p *Profile, now time.Time) error {
	if u.FirstName != nil {
		v := strings.TrimSpace(*u.FirstName)
		if v == "" {
			return fmt.Errorf("%w: first name cannot be empty", ErrInvalidInput)
		}
		p.FirstName = v
	}
	if u.LastName != nil {
		v := strings.TrimSpace(*u.LastName)
		if v == "" {
			return fmt.Errorf("%w: last name cannot be empty", ErrInvalidInput)
		}
		p.LastName = v
	}
	if u.Phone != nil {
		v := strings.TrimSpace(*u.Phone)
		if v == "" {
			return fmt.Errorf("%w: phone cannot be empty", ErrInvalidInput)
		}
		p.Phone = v
	}
	p.UpdatedAt = now
	return nil
}
