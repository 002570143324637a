package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/auth"
)

type stubReviewUseCase struct {
	canReview bool
	submitErr error
	review    *domain.ReviewModel
}

func (s *stubReviewUseCase) CanReview(ctx context.Context, sess *domain.Session, courseID string) (bool, error) {
	return s.canReview, nil
}

func (s *stubReviewUseCase) SubmitReview(ctx context.Context, sess *domain.Session, courseID string, input *domain.NewReview) (*domain.ReviewModel, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.review, nil
}

func (s *stubReviewUseCase) UpdateReview(ctx context.Context, sess *domain.Session, courseID string, input *domain.NewReview) (*domain.ReviewModel, error) {
	return s.review, nil
}

func newReviewContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder, *auth.JWTUtil) {
	t.Helper()
	app := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)
	c.SetParamNames("courseID")
	c.SetParamValues("c1")

	ju := auth.NewJWTUtil("HS256", "test-secret", "session", time.Minute)
	ju.SetContextToken(c, &auth.AppTokenClaims{UID: "u1", Email: "u1@example.com", Role: domain.RoleStudent})
	return c, rec, ju
}

func TestHandleEligibility(t *testing.T) {
	c, rec, ju := newReviewContext(t, http.MethodGet, "")
	handler := NewReviewHandler(&stubReviewUseCase{canReview: true}, ju)

	require.NoError(t, handler.HandleEligibility(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"can_review":true}`, rec.Body.String())
}

func TestHandleSubmit(t *testing.T) {
	review := &domain.ReviewModel{ID: "r1", CourseID: "c1", LearnerID: "u1", Rating: 5}
	c, rec, ju := newReviewContext(t, http.MethodPost, `{"rating":5,"comment":"great"}`)
	handler := NewReviewHandler(&stubReviewUseCase{review: review}, ju)

	require.NoError(t, handler.HandleSubmit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"r1"`)
}

func TestHandleSubmit_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrRatingOutOfRange, http.StatusBadRequest},
		{domain.ErrNotEligible, http.StatusForbidden},
		{domain.ErrDuplicateReview, http.StatusConflict},
		{domain.ErrCourseNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		c, rec, ju := newReviewContext(t, http.MethodPost, `{"rating":3}`)
		handler := NewReviewHandler(&stubReviewUseCase{submitErr: tc.err}, ju)

		require.NoError(t, handler.HandleSubmit(c))
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestStatusOf_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}
