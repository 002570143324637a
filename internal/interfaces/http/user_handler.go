package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduflow/eduflow-backend/internal/domain"
	infra "github.com/eduflow/eduflow-backend/internal/infrastructure"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/auth"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/driver"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/validate"
)

// UserHandler account and session operations
type UserHandler struct {
	JWTUtil        *auth.JWTUtil
	UserRepository domain.UserRepository
	KVStore        driver.KeyValueDB
	UserUseCase    domain.UserUseCase
	Validator      validate.Validator
	MaximumRetry   int
}

func NewUserHandler(
	JWTUtil *auth.JWTUtil,
	UserRepository domain.UserRepository,
	KVStore driver.KeyValueDB,
	UserUseCase domain.UserUseCase,
	MaximumRetry int,
	Validator validate.Validator,
) *UserHandler {
	return &UserHandler{
		JWTUtil:        JWTUtil,
		UserRepository: UserRepository,
		KVStore:        KVStore,
		UserUseCase:    UserUseCase,
		Validator:      Validator,
		MaximumRetry:   MaximumRetry,
	}
}

type credentialPost struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignIn verify the credential and set the session cookie. Failed
// attempts are counted; the account locks once the retry budget is spent.
func (uh *UserHandler) HandleSignIn(c echo.Context) (err error) {
	ju := uh.JWTUtil
	repo := uh.UserRepository

	post := new(credentialPost)
	if err = c.Bind(post); err != nil {
		return bindError(c, err)
	}

	ctx := c.Request().Context()
	profile, err := repo.FindByEmail(ctx, post.Email)
	if err != nil {
		return err
	}
	if profile == nil {
		return writeDomainError(c, domain.ErrNoSuchUser)
	}
	if profile.LoginRetry >= uh.MaximumRetry {
		return writeDomainError(c, domain.ErrUserTooManyRetry)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(post.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			profile.LoginRetry++
			uh.UserRepository.UpdateUser(ctx, profile)
			return writeDomainError(c, domain.ErrNoSuchUser)
		}
		return err
	}

	// reset retry number
	profile.LoginRetry = 0
	if err := uh.UserRepository.UpdateUser(ctx, profile); err != nil {
		return err
	}

	tokenStr, err := ju.GenerateTokenStr(profile)
	if err != nil {
		return err
	}
	ju.SetClientToken(c, tokenStr)
	profile.Password = ""
	return c.JSON(http.StatusOK, profile)
}

// HandleSignUp register a new account
func (uh *UserHandler) HandleSignUp(c echo.Context) (err error) {
	post := new(domain.ProfileModel)
	if err = c.Bind(post); err != nil {
		return bindError(c, err)
	}

	if fieldErrors := uh.Validator.Struct(post); fieldErrors != nil {
		return c.JSON(http.StatusBadRequest,
			infra.NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fieldErrors))
	}

	if password, err := bcrypt.GenerateFromPassword([]byte(post.Password), bcrypt.DefaultCost); err == nil {
		post.Password = string(password)
	} else {
		return err
	}

	profile, err := uh.UserUseCase.SignUp(c.Request().Context(), post)
	if err != nil {
		return writeDomainError(c, err)
	}
	profile.Password = ""
	return c.JSON(http.StatusCreated, profile)
}

// HandleSignOut revoke the current token by blacklisting it until it would
// have expired anyway
func (uh *UserHandler) HandleSignOut(c echo.Context) (err error) {
	ju := uh.JWTUtil
	kv := uh.KVStore

	if tokenStr, err := ju.ExtractToken(c); err == nil {
		if token, err := ju.Validate(tokenStr); err == nil {
			ju.ClearClientToken(c)
			return kv.SetEX(tokenStr, "", token.TimeRemaining())
		}
		return c.NoContent(http.StatusUnauthorized)
	}
	return nil
}

// HandleGetProfile the caller's own profile
func (uh *UserHandler) HandleGetProfile(c echo.Context) error {
	sess := session(uh.JWTUtil, c)
	profile, err := uh.UserUseCase.GetProfile(c.Request().Context(), sess.UserID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// HandleUpdateProfile change display name and avatar
func (uh *UserHandler) HandleUpdateProfile(c echo.Context) error {
	post := new(domain.ProfileUpdate)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}
	if fieldErrors := uh.Validator.Struct(post); fieldErrors != nil {
		return c.JSON(http.StatusBadRequest,
			infra.NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fieldErrors))
	}

	sess := session(uh.JWTUtil, c)
	profile, err := uh.UserUseCase.UpdateProfile(c.Request().Context(), sess, post)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// session project the verified token claims into a domain session
func session(ju *auth.JWTUtil, c echo.Context) *domain.Session {
	if claims := ju.GetContextToken(c); claims != nil {
		return claims.Session()
	}
	return nil
}
