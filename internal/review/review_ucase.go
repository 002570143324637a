package review

import (
	"context"

	"go.elastic.co/apm"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/uuid"
)

// ReviewUseCaseImpl review eligibility gate and submission
type ReviewUseCaseImpl struct {
	ReviewRepository     domain.ReviewRepository
	EnrollmentRepository domain.EnrollmentRepository
	CourseRepository     domain.CourseRepository
	UUIDGenerator        uuid.Generator
}

var _ domain.ReviewUseCase = &ReviewUseCaseImpl{}

func NewReviewUseCase(
	ReviewRepository domain.ReviewRepository,
	EnrollmentRepository domain.EnrollmentRepository,
	CourseRepository domain.CourseRepository,
	UUIDGenerator uuid.Generator,
) *ReviewUseCaseImpl {
	return &ReviewUseCaseImpl{
		ReviewRepository:     ReviewRepository,
		EnrollmentRepository: EnrollmentRepository,
		CourseRepository:     CourseRepository,
		UUIDGenerator:        UUIDGenerator,
	}
}

// ValidRating bounds check, performed before any I/O
func ValidRating(rating int) bool {
	return rating >= domain.MinRating && rating <= domain.MaxRating
}

// CanReview reports whether the learner may submit a first review: enrolled,
// every lesson completed, and no review on file yet
func (ru *ReviewUseCaseImpl) CanReview(ctx context.Context, sess *domain.Session, courseID string) (bool, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "ReviewUseCaseImpl.CanReview", "service")
	defer apmSpan.End()

	eligible, _, err := ru.eligibility(ctx, sess, courseID)
	return eligible, err
}

// SubmitReview create the learner's review of a completed course. The rating
// is validated before the gate is consulted, so a bad rating never costs a
// round trip.
func (ru *ReviewUseCaseImpl) SubmitReview(ctx context.Context, sess *domain.Session, courseID string, input *domain.NewReview) (*domain.ReviewModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "ReviewUseCaseImpl.SubmitReview", "service")
	defer apmSpan.End()

	if !ValidRating(input.Rating) {
		return nil, domain.ErrRatingOutOfRange
	}
	eligible, existing, err := ru.eligibility(ctx, sess, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateReview
	}
	if !eligible {
		return nil, domain.ErrNotEligible
	}

	id, err := ru.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	review := &domain.ReviewModel{
		ID:        id,
		CourseID:  courseID,
		LearnerID: sess.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := ru.ReviewRepository.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview edit an existing review in place
func (ru *ReviewUseCaseImpl) UpdateReview(ctx context.Context, sess *domain.Session, courseID string, input *domain.NewReview) (*domain.ReviewModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "ReviewUseCaseImpl.UpdateReview", "service")
	defer apmSpan.End()

	if !ValidRating(input.Rating) {
		return nil, domain.ErrRatingOutOfRange
	}
	review, err := ru.ReviewRepository.GetReview(ctx, sess.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, domain.ErrNotEligible
	}

	review.Rating = input.Rating
	review.Comment = input.Comment
	if err := ru.ReviewRepository.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// eligibility evaluates the gate and returns any existing review alongside,
// sparing SubmitReview a second lookup
func (ru *ReviewUseCaseImpl) eligibility(ctx context.Context, sess *domain.Session, courseID string) (bool, *domain.ReviewModel, error) {
	enrollment, err := ru.EnrollmentRepository.GetEnrollment(ctx, sess.UserID, courseID)
	if err != nil {
		return false, nil, err
	}
	if enrollment == nil {
		return false, nil, nil
	}

	course, err := ru.CourseRepository.GetCourseByID(ctx, courseID)
	if err != nil {
		return false, nil, err
	}
	if course == nil {
		return false, nil, domain.ErrCourseNotFound
	}
	if len(course.Lessons) == 0 || len(enrollment.Completed) < len(course.Lessons) {
		return false, nil, nil
	}

	existing, err := ru.ReviewRepository.GetReview(ctx, sess.UserID, courseID)
	if err != nil {
		return false, nil, err
	}
	return existing == nil, existing, nil
}
