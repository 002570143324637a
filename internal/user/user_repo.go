package user

import (
	"context"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/driver"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/uuid"
)

type UserRepository struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ domain.UserRepository = &UserRepository{}

func NewUserRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *UserRepository {
	return &UserRepository{
		Conn:          Conn,
		UUIDGenerator: UUIDGenerator,
	}
}

const profileColumns = `id, email, password, full_name, avatar_url, role, login_retry, created_at`

// FindByEmail lookup a profile by email, nil when none matches
func (repo *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.ProfileModel, error) {
	return repo.queryOne(ctx, `SELECT `+profileColumns+`
FROM user_profile WHERE email = $1`, email)
}

// FindByID lookup a profile by id, nil when none matches
func (repo *UserRepository) FindByID(ctx context.Context, id string) (*domain.ProfileModel, error) {
	return repo.queryOne(ctx, `SELECT `+profileColumns+`
FROM user_profile WHERE id = $1`, id)
}

func (repo *UserRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*domain.ProfileModel, error) {
	row, err := repo.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if !row.Next() {
		return nil, nil
	}
	profile := new(domain.ProfileModel)
	if err := row.Scan(&profile.ID, &profile.Email, &profile.Password, &profile.FullName,
		&profile.AvatarURL, &profile.Role, &profile.LoginRetry, &profile.CreatedAt); err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveUser insert a new profile, generating its id. The email unique key turns
// a duplicate registration into ErrDuplicatedUser.
func (repo *UserRepository) SaveUser(ctx context.Context, profile *domain.ProfileModel) error {
	if id, err := repo.UUIDGenerator.Generate(); err == nil {
		profile.ID = id
	} else {
		return err
	}

	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO user_profile(id, email, password, full_name, avatar_url, role)
VALUES($1,$2,$3,$4,$5,$6)
	`, profile.ID, profile.Email, profile.Password, profile.FullName, profile.AvatarURL, profile.Role)
	if driver.IsUniqueViolation(err) || driver.IsDuplicateEntry(err) {
		return domain.ErrDuplicatedUser
	}
	return err
}

func (repo *UserRepository) UpdateUser(ctx context.Context, profile *domain.ProfileModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
UPDATE user_profile
SET email=$1,
    login_retry=$2
WHERE id = $3
	`, profile.Email, profile.LoginRetry, profile.ID)
	return err
}

// UpdateProfile apply the user-editable fields and return the fresh profile
func (repo *UserRepository) UpdateProfile(ctx context.Context, id string, update *domain.ProfileUpdate) (*domain.ProfileModel, error) {
	_, err := repo.Conn.ExecContext(ctx, `
UPDATE user_profile
SET full_name=$1,
    avatar_url=$2
WHERE id = $3
	`, update.FullName, update.AvatarURL, id)
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}
