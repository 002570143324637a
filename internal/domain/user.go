package domain

import (
	"context"
	"time"
)

// Profile roles. Fixed at sign-up; only instructors author courses, only
// learners enroll and review.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

// ProfileModel an account profile. Password holds the bcrypt hash and never
// leaves the service.
type ProfileModel struct {
	ID         string     `json:"id"`
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password,omitempty" validate:"required,min=8"`
	FullName   string     `json:"full_name" validate:"required"`
	AvatarURL  string     `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Role       string     `json:"role" validate:"required,oneof=student instructor"`
	LoginRetry int        `json:"-"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// IsInstructor role check
func (p *ProfileModel) IsInstructor() bool {
	return p.Role == RoleInstructor
}

// Session the authenticated caller, decoded from the request token. Threaded
// explicitly through every operation instead of living in ambient state.
type Session struct {
	UserID string
	Email  string
	Role   string
}

// IsInstructor role check on the session claims
func (s *Session) IsInstructor() bool {
	return s != nil && s.Role == RoleInstructor
}

// ProfileUpdate fields a user may change after sign-up
type ProfileUpdate struct {
	FullName  string `json:"full_name" validate:"required"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*ProfileModel, error)
	FindByID(ctx context.Context, id string) (*ProfileModel, error)
	SaveUser(ctx context.Context, profile *ProfileModel) error
	UpdateUser(ctx context.Context, profile *ProfileModel) error
	UpdateProfile(ctx context.Context, id string, update *ProfileUpdate) (*ProfileModel, error)
}

type UserUseCase interface {
	SignUp(ctx context.Context, profile *ProfileModel) (*ProfileModel, error)
	GetProfile(ctx context.Context, id string) (*ProfileModel, error)
	UpdateProfile(ctx context.Context, sess *Session, update *ProfileUpdate) (*ProfileModel, error)
}
