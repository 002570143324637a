package user

import (
	"context"

	"go.elastic.co/apm"

	"github.com/eduflow/eduflow-backend/internal/domain"
)

type UserUseCaseImpl struct {
	UserRepository domain.UserRepository
}

var _ domain.UserUseCase = &UserUseCaseImpl{}

func NewUserUseCase(
	UserRepository domain.UserRepository,
) *UserUseCaseImpl {
	return &UserUseCaseImpl{
		UserRepository: UserRepository,
	}
}

// SignUp register a profile. The password must already be hashed by the
// transport layer.
func (uu *UserUseCaseImpl) SignUp(ctx context.Context, profile *domain.ProfileModel) (*domain.ProfileModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UserUseCaseImpl.SignUp", "service")
	defer apmSpan.End()

	ur := uu.UserRepository
	if m, err := ur.FindByEmail(ctx, profile.Email); err != nil {
		return nil, err
	} else if m != nil {
		return nil, domain.ErrDuplicatedUser
	}

	if err := ur.SaveUser(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile fetch a profile by id. The password hash is blanked before the
// model leaves the use case.
func (uu *UserUseCaseImpl) GetProfile(ctx context.Context, id string) (*domain.ProfileModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UserUseCaseImpl.GetProfile", "service")
	defer apmSpan.End()

	profile, err := uu.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	profile.Password = ""
	return profile, nil
}

// UpdateProfile change the caller's own display fields
func (uu *UserUseCaseImpl) UpdateProfile(ctx context.Context, sess *domain.Session, update *domain.ProfileUpdate) (*domain.ProfileModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UserUseCaseImpl.UpdateProfile", "service")
	defer apmSpan.End()

	profile, err := uu.UserRepository.UpdateProfile(ctx, sess.UserID, update)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	profile.Password = ""
	return profile, nil
}
