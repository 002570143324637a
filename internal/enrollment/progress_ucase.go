package enrollment

import (
	"context"
	"math"

	"go.elastic.co/apm"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/uuid"
)

// EnrollmentUseCaseImpl enrollment lifecycle and lesson progress tracking
type EnrollmentUseCaseImpl struct {
	EnrollmentRepository domain.EnrollmentRepository
	CourseRepository     domain.CourseRepository
	UUIDGenerator        uuid.Generator
}

var _ domain.EnrollmentUseCase = &EnrollmentUseCaseImpl{}

func NewEnrollmentUseCase(
	EnrollmentRepository domain.EnrollmentRepository,
	CourseRepository domain.CourseRepository,
	UUIDGenerator uuid.Generator,
) *EnrollmentUseCaseImpl {
	return &EnrollmentUseCaseImpl{
		EnrollmentRepository: EnrollmentRepository,
		CourseRepository:     CourseRepository,
		UUIDGenerator:        UUIDGenerator,
	}
}

// ProgressPercent completion percentage of an enrollment, rounded to the
// nearest integer. A course without lessons is always at 0.
func ProgressPercent(enrollment *domain.EnrollmentModel, course *domain.CourseModel) int {
	n := len(course.Lessons)
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(len(enrollment.Completed)) * 100 / float64(n)))
}

// Enroll put the learner into a course. Enrolling twice is rejected with
// ErrAlreadyEnrolled rather than silently reusing the old enrollment.
func (eu *EnrollmentUseCaseImpl) Enroll(ctx context.Context, sess *domain.Session, courseID string) (*domain.EnrollmentModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "EnrollmentUseCaseImpl.Enroll", "service")
	defer apmSpan.End()

	course, err := eu.CourseRepository.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}

	id, err := eu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	enrollment := &domain.EnrollmentModel{
		ID:        id,
		LearnerID: sess.UserID,
		CourseID:  courseID,
	}
	if err := eu.EnrollmentRepository.SaveEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// MarkComplete add a lesson to the enrollment's completed set. Marking the
// same lesson twice is a no-op; JustCompleted fires only on the call that
// finishes the course.
func (eu *EnrollmentUseCaseImpl) MarkComplete(ctx context.Context, sess *domain.Session, courseID, lessonID string) (*domain.ProgressResult, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "EnrollmentUseCaseImpl.MarkComplete", "service")
	defer apmSpan.End()

	enrollment, course, err := eu.enrolledCourse(ctx, sess, courseID)
	if err != nil {
		return nil, err
	}
	if _, ok := course.LessonIDSet()[lessonID]; !ok {
		return nil, domain.ErrLessonNotFound
	}

	total := len(course.Lessons)
	wasComplete := total > 0 && len(enrollment.Completed) >= total

	if !enrollment.HasCompleted(lessonID) {
		enrollment.Completed = append(enrollment.Completed, lessonID)
		if err := eu.EnrollmentRepository.UpdateProgress(ctx, enrollment.ID, enrollment.Completed); err != nil {
			return nil, err
		}
	}

	isComplete := total > 0 && len(enrollment.Completed) >= total
	return &domain.ProgressResult{
		Enrollment:    enrollment,
		Percent:       ProgressPercent(enrollment, course),
		Completed:     isComplete,
		JustCompleted: isComplete && !wasComplete,
	}, nil
}

// Progress read-only snapshot of the learner's progress in a course
func (eu *EnrollmentUseCaseImpl) Progress(ctx context.Context, sess *domain.Session, courseID string) (*domain.ProgressResult, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "EnrollmentUseCaseImpl.Progress", "service")
	defer apmSpan.End()

	enrollment, course, err := eu.enrolledCourse(ctx, sess, courseID)
	if err != nil {
		return nil, err
	}
	total := len(course.Lessons)
	return &domain.ProgressResult{
		Enrollment: enrollment,
		Percent:    ProgressPercent(enrollment, course),
		Completed:  total > 0 && len(enrollment.Completed) >= total,
	}, nil
}

// LearnerDashboard the learner's enrollments with course summary and derived
// completion percent
func (eu *EnrollmentUseCaseImpl) LearnerDashboard(ctx context.Context, sess *domain.Session) ([]*domain.EnrolledCourse, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "EnrollmentUseCaseImpl.LearnerDashboard", "service")
	defer apmSpan.End()

	items, err := eu.EnrollmentRepository.QueryEnrollmentsByLearner(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Course != nil && item.Course.LessonCount > 0 {
			item.Percent = int(math.Round(float64(len(item.Enrollment.Completed)) * 100 / float64(item.Course.LessonCount)))
		}
	}
	return items, nil
}

func (eu *EnrollmentUseCaseImpl) enrolledCourse(ctx context.Context, sess *domain.Session, courseID string) (*domain.EnrollmentModel, *domain.CourseModel, error) {
	enrollment, err := eu.EnrollmentRepository.GetEnrollment(ctx, sess.UserID, courseID)
	if err != nil {
		return nil, nil, err
	}
	if enrollment == nil {
		return nil, nil, domain.ErrEnrollmentNotFound
	}
	course, err := eu.CourseRepository.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	if course == nil {
		return nil, nil, domain.ErrCourseNotFound
	}
	return enrollment, course, nil
}
