package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/auth"
)

// EnrollmentHandler enrollment and progress operations
type EnrollmentHandler struct {
	EnrollmentUseCase domain.EnrollmentUseCase
	JWTUtil           *auth.JWTUtil
}

func NewEnrollmentHandler(
	EnrollmentUseCase domain.EnrollmentUseCase,
	JWTUtil *auth.JWTUtil,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		EnrollmentUseCase: EnrollmentUseCase,
		JWTUtil:           JWTUtil,
	}
}

// HandleEnroll enroll the caller in a course
func (eh *EnrollmentHandler) HandleEnroll(c echo.Context) error {
	sess := session(eh.JWTUtil, c)
	enrollment, err := eh.EnrollmentUseCase.Enroll(c.Request().Context(), sess, c.Param("courseID"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// HandleMarkComplete mark one lesson as finished and return the fresh
// progress snapshot
func (eh *EnrollmentHandler) HandleMarkComplete(c echo.Context) error {
	sess := session(eh.JWTUtil, c)
	result, err := eh.EnrollmentUseCase.MarkComplete(c.Request().Context(), sess,
		c.Param("courseID"), c.Param("lessonID"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// HandleProgress the caller's progress in one course
func (eh *EnrollmentHandler) HandleProgress(c echo.Context) error {
	sess := session(eh.JWTUtil, c)
	result, err := eh.EnrollmentUseCase.Progress(c.Request().Context(), sess, c.Param("courseID"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// HandleDashboard every enrollment of the caller with completion percent
func (eh *EnrollmentHandler) HandleDashboard(c echo.Context) error {
	sess := session(eh.JWTUtil, c)
	items, err := eh.EnrollmentUseCase.LearnerDashboard(c.Request().Context(), sess)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
