package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduflow/eduflow-backend/internal/domain"
)

type fakeReviewRepo struct {
	reviews map[string]*domain.ReviewModel // keyed by learner:course
	calls   int
}

func (f *fakeReviewRepo) GetReview(ctx context.Context, learnerID, courseID string) (*domain.ReviewModel, error) {
	f.calls++
	return f.reviews[learnerID+":"+courseID], nil
}

func (f *fakeReviewRepo) SaveReview(ctx context.Context, review *domain.ReviewModel) error {
	f.calls++
	key := review.LearnerID + ":" + review.CourseID
	if _, dup := f.reviews[key]; dup {
		return domain.ErrDuplicateReview
	}
	f.reviews[key] = review
	return nil
}

func (f *fakeReviewRepo) UpdateReview(ctx context.Context, review *domain.ReviewModel) error {
	f.calls++
	f.reviews[review.LearnerID+":"+review.CourseID] = review
	return nil
}

type fakeEnrollmentRepo struct {
	enrollments map[string]*domain.EnrollmentModel
	calls       int
}

func (f *fakeEnrollmentRepo) GetEnrollmentByID(ctx context.Context, id string) (*domain.EnrollmentModel, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) GetEnrollment(ctx context.Context, learnerID, courseID string) (*domain.EnrollmentModel, error) {
	f.calls++
	return f.enrollments[learnerID+":"+courseID], nil
}

func (f *fakeEnrollmentRepo) QueryEnrollmentsByLearner(ctx context.Context, learnerID string) ([]*domain.EnrolledCourse, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) SaveEnrollment(ctx context.Context, e *domain.EnrollmentModel) error {
	return nil
}

func (f *fakeEnrollmentRepo) UpdateProgress(ctx context.Context, enrollmentID string, completed []string) error {
	return nil
}

type fakeCourseRepo struct {
	courses map[string]*domain.CourseModel
}

func (f *fakeCourseRepo) GetCourseByID(ctx context.Context, id string) (*domain.CourseModel, error) {
	return f.courses[id], nil
}

func (f *fakeCourseRepo) QueryPublishedCourses(ctx context.Context, filter *domain.CatalogFilter) ([]*domain.CourseCard, error) {
	return nil, nil
}

func (f *fakeCourseRepo) QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]*domain.CourseCard, error) {
	return nil, nil
}

func (f *fakeCourseRepo) SaveCourse(ctx context.Context, course *domain.CourseModel) error { return nil }
func (f *fakeCourseRepo) UpdateCourse(ctx context.Context, course *domain.CourseModel) error {
	return nil
}
func (f *fakeCourseRepo) DeleteCourse(ctx context.Context, id string) error                { return nil }
func (f *fakeCourseRepo) SaveLesson(ctx context.Context, lesson *domain.LessonModel) error { return nil }
func (f *fakeCourseRepo) UpdateLesson(ctx context.Context, lesson *domain.LessonModel) error {
	return nil
}
func (f *fakeCourseRepo) DeleteLesson(ctx context.Context, id string) error { return nil }

type fakeIDGen struct{ n int }

func (g *fakeIDGen) Generate() (string, error) {
	g.n++
	return "id", nil
}

type fixture struct {
	uc         *ReviewUseCaseImpl
	reviews    *fakeReviewRepo
	enrollment *fakeEnrollmentRepo
}

func newFixture() *fixture {
	course := &domain.CourseModel{ID: "c1", Title: "t", Lessons: []*domain.LessonModel{
		{ID: "l1"}, {ID: "l2"},
	}}
	reviews := &fakeReviewRepo{reviews: make(map[string]*domain.ReviewModel)}
	enrollment := &fakeEnrollmentRepo{enrollments: make(map[string]*domain.EnrollmentModel)}
	courses := &fakeCourseRepo{courses: map[string]*domain.CourseModel{"c1": course}}
	return &fixture{
		uc:         NewReviewUseCase(reviews, enrollment, courses, &fakeIDGen{}),
		reviews:    reviews,
		enrollment: enrollment,
	}
}

func (f *fixture) enroll(completed ...string) {
	f.enrollment.enrollments["u1:c1"] = &domain.EnrollmentModel{
		ID: "e1", LearnerID: "u1", CourseID: "c1", Completed: completed,
	}
}

func sess() *domain.Session {
	return &domain.Session{UserID: "u1", Role: domain.RoleStudent}
}

func TestCanReview(t *testing.T) {
	ctx := context.Background()

	t.Run("not enrolled", func(t *testing.T) {
		f := newFixture()
		ok, err := f.uc.CanReview(ctx, sess(), "c1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("enrolled but incomplete", func(t *testing.T) {
		f := newFixture()
		f.enroll("l1")
		ok, err := f.uc.CanReview(ctx, sess(), "c1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("complete without prior review", func(t *testing.T) {
		f := newFixture()
		f.enroll("l1", "l2")
		ok, err := f.uc.CanReview(ctx, sess(), "c1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newFixture()
		f.enroll("l1", "l2")
		f.reviews.reviews["u1:c1"] = &domain.ReviewModel{ID: "r1"}
		ok, err := f.uc.CanReview(ctx, sess(), "c1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	f.enroll("l1", "l2")
	review, err := f.uc.SubmitReview(ctx, sess(), "c1", &domain.NewReview{Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "u1", review.LearnerID)

	_, err = f.uc.SubmitReview(ctx, sess(), "c1", &domain.NewReview{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
}

func TestSubmitReview_Ineligible(t *testing.T) {
	f := newFixture()
	f.enroll("l1")

	_, err := f.uc.SubmitReview(context.Background(), sess(), "c1", &domain.NewReview{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrNotEligible)
}

func TestSubmitReview_RatingCheckedBeforeIO(t *testing.T) {
	f := newFixture()
	f.enroll("l1", "l2")

	for _, rating := range []int{0, 6, -1} {
		_, err := f.uc.SubmitReview(context.Background(), sess(), "c1", &domain.NewReview{Rating: rating})
		assert.ErrorIs(t, err, domain.ErrRatingOutOfRange)
	}
	assert.Zero(t, f.reviews.calls)
	assert.Zero(t, f.enrollment.calls)
}

func TestUpdateReview(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	f.enroll("l1", "l2")
	_, err := f.uc.SubmitReview(ctx, sess(), "c1", &domain.NewReview{Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	review, err := f.uc.UpdateReview(ctx, sess(), "c1", &domain.NewReview{Rating: 5, Comment: "grew on me"})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "grew on me", review.Comment)

	// boundary ratings are accepted
	_, err = f.uc.UpdateReview(ctx, sess(), "c1", &domain.NewReview{Rating: 1})
	assert.NoError(t, err)
}

func TestUpdateReview_NoExisting(t *testing.T) {
	f := newFixture()
	_, err := f.uc.UpdateReview(context.Background(), sess(), "c1", &domain.NewReview{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrNotEligible)
}
