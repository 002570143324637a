package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/auth"
)

// ReviewHandler review eligibility and submission
type ReviewHandler struct {
	ReviewUseCase domain.ReviewUseCase
	JWTUtil       *auth.JWTUtil
}

func NewReviewHandler(
	ReviewUseCase domain.ReviewUseCase,
	JWTUtil *auth.JWTUtil,
) *ReviewHandler {
	return &ReviewHandler{
		ReviewUseCase: ReviewUseCase,
		JWTUtil:       JWTUtil,
	}
}

// HandleEligibility whether the caller may leave a first review
func (rh *ReviewHandler) HandleEligibility(c echo.Context) error {
	sess := session(rh.JWTUtil, c)
	ok, err := rh.ReviewUseCase.CanReview(c.Request().Context(), sess, c.Param("courseID"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"can_review": ok})
}

// HandleSubmit create the caller's review of a completed course
func (rh *ReviewHandler) HandleSubmit(c echo.Context) error {
	post := new(domain.NewReview)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}

	sess := session(rh.JWTUtil, c)
	review, err := rh.ReviewUseCase.SubmitReview(c.Request().Context(), sess, c.Param("courseID"), post)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

// HandleUpdate edit the caller's existing review
func (rh *ReviewHandler) HandleUpdate(c echo.Context) error {
	post := new(domain.NewReview)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}

	sess := session(rh.JWTUtil, c)
	review, err := rh.ReviewUseCase.UpdateReview(c.Request().Context(), sess, c.Param("courseID"), post)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}
