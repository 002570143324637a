package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduflow/eduflow-backend/internal/domain"
	infra "github.com/eduflow/eduflow-backend/internal/infrastructure"
)

// statusOf map domain sentinel errors onto HTTP status codes. Unknown errors
// map to 500 and are left for the error handling middleware to log.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrLessonNotFound),
		errors.Is(err, domain.ErrEnrollmentNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyEnrolled),
		errors.Is(err, domain.ErrDuplicateReview),
		errors.Is(err, domain.ErrDuplicatedUser):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrNotCourseOwner),
		errors.Is(err, domain.ErrInstructorOnly),
		errors.Is(err, domain.ErrUserTooManyRetry):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRatingOutOfRange),
		errors.Is(err, domain.ErrInvalidLessonKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSuchUser):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeDomainError render a domain error as the standard envelope, or bubble
// it up when it is not a recognized sentinel
func writeDomainError(c echo.Context, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		return err
	}
	return c.JSON(code, infra.NewRESTStandardError(code, err.Error()))
}

func bindError(c echo.Context, err error) error {
	detail := err.Error()
	if httpErr, ok := err.(*echo.HTTPError); ok && httpErr.Internal != nil {
		detail = httpErr.Internal.Error()
	}
	return c.JSON(http.StatusUnprocessableEntity,
		infra.NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to bind request body").SetDetail(detail))
}
