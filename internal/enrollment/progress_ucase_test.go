package enrollment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduflow/eduflow-backend/internal/domain"
)

type fakeEnrollmentRepo struct {
	enrollments map[string]*domain.EnrollmentModel // keyed by learner:course
	cards       map[string]*domain.CourseCard
	saved       int
	updates     int
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		enrollments: make(map[string]*domain.EnrollmentModel),
		cards:       make(map[string]*domain.CourseCard),
	}
}

func (f *fakeEnrollmentRepo) GetEnrollmentByID(ctx context.Context, id string) (*domain.EnrollmentModel, error) {
	for _, e := range f.enrollments {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEnrollmentRepo) GetEnrollment(ctx context.Context, learnerID, courseID string) (*domain.EnrollmentModel, error) {
	return f.enrollments[learnerID+":"+courseID], nil
}

func (f *fakeEnrollmentRepo) QueryEnrollmentsByLearner(ctx context.Context, learnerID string) ([]*domain.EnrolledCourse, error) {
	var result []*domain.EnrolledCourse
	for _, e := range f.enrollments {
		if e.LearnerID == learnerID {
			result = append(result, &domain.EnrolledCourse{Enrollment: e, Course: f.cards[e.CourseID]})
		}
	}
	return result, nil
}

func (f *fakeEnrollmentRepo) SaveEnrollment(ctx context.Context, e *domain.EnrollmentModel) error {
	key := e.LearnerID + ":" + e.CourseID
	if _, dup := f.enrollments[key]; dup {
		return domain.ErrAlreadyEnrolled
	}
	f.enrollments[key] = e
	f.saved++
	return nil
}

func (f *fakeEnrollmentRepo) UpdateProgress(ctx context.Context, enrollmentID string, completed []string) error {
	f.updates++
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

type fakeIDGen struct{ next int }

func (g *fakeIDGen) Generate() (string, error) {
	g.next++
	return string(rune('a' + g.next - 1)), nil
}

func courseWithLessons(id string, lessonIDs ...string) *domain.CourseModel {
	course := &domain.CourseModel{ID: id, Title: "t", Published: true}
	for i, lid := range lessonIDs {
		course.Lessons = append(course.Lessons, &domain.LessonModel{ID: lid, CourseID: id, Order: i})
	}
	return course
}

func newTestUseCase(courses ...*domain.CourseModel) (*EnrollmentUseCaseImpl, *fakeEnrollmentRepo) {
	courseRepo := &fakeCourseRepo{courses: make(map[string]*domain.CourseModel)}
	for _, c := range courses {
		courseRepo.courses[c.ID] = c
	}
	enrollRepo := newFakeEnrollmentRepo()
	return NewEnrollmentUseCase(enrollRepo, courseRepo, &fakeIDGen{}), enrollRepo
}

func TestProgressPercent(t *testing.T) {
	course := courseWithLessons("c1", "l1", "l2", "l3")
	enrollment := &domain.EnrollmentModel{Completed: []string{"l1"}}

	assert.Equal(t, 33, ProgressPercent(enrollment, course))

	enrollment.Completed = append(enrollment.Completed, "l2")
	assert.Equal(t, 67, ProgressPercent(enrollment, course))

	assert.Equal(t, 0, ProgressPercent(enrollment, &domain.CourseModel{}))
}

func TestEnroll(t *testing.T) {
	uc, _ := newTestUseCase(courseWithLessons("c1", "l1"))
	sess := &domain.Session{UserID: "u1", Role: domain.RoleStudent}

	enrollment, err := uc.Enroll(context.Background(), sess, "c1")
	require.NoError(t, err)
	assert.Equal(t, "u1", enrollment.LearnerID)
	assert.Equal(t, "c1", enrollment.CourseID)

	_, err = uc.Enroll(context.Background(), sess, "c1")
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)

	_, err = uc.Enroll(context.Background(), sess, "missing")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestMarkComplete_Progression(t *testing.T) {
	uc, _ := newTestUseCase(courseWithLessons("c1", "l1", "l2"))
	sess := &domain.Session{UserID: "u1", Role: domain.RoleStudent}
	ctx := context.Background()

	_, err := uc.Enroll(ctx, sess, "c1")
	require.NoError(t, err)

	res, err := uc.MarkComplete(ctx, sess, "c1", "l1")
	require.NoError(t, err)
	assert.Equal(t, 50, res.Percent)
	assert.False(t, res.Completed)
	assert.False(t, res.JustCompleted)

	res, err = uc.MarkComplete(ctx, sess, "c1", "l2")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Percent)
	assert.True(t, res.Completed)
	assert.True(t, res.JustCompleted)
}

func TestMarkComplete_Idempotent(t *testing.T) {
	uc, repo := newTestUseCase(courseWithLessons("c1", "l1"))
	sess := &domain.Session{UserID: "u1", Role: domain.RoleStudent}
	ctx := context.Background()

	_, err := uc.Enroll(ctx, sess, "c1")
	require.NoError(t, err)

	res, err := uc.MarkComplete(ctx, sess, "c1", "l1")
	require.NoError(t, err)
	assert.True(t, res.JustCompleted)
	assert.Equal(t, 1, repo.updates)

	// second completion changes nothing and does not re-fire the edge
	res, err = uc.MarkComplete(ctx, sess, "c1", "l1")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.False(t, res.JustCompleted)
	assert.Equal(t, 1, repo.updates)
	assert.Len(t, res.Enrollment.Completed, 1)
}

func TestMarkComplete_ForeignLesson(t *testing.T) {
	uc, _ := newTestUseCase(courseWithLessons("c1", "l1"), courseWithLessons("c2", "x1"))
	sess := &domain.Session{UserID: "u1", Role: domain.RoleStudent}
	ctx := context.Background()

	_, err := uc.Enroll(ctx, sess, "c1")
	require.NoError(t, err)

	_, err = uc.MarkComplete(ctx, sess, "c1", "x1")
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}

func TestMarkComplete_NotEnrolled(t *testing.T) {
	uc, _ := newTestUseCase(courseWithLessons("c1", "l1"))
	sess := &domain.Session{UserID: "u1", Role: domain.RoleStudent}

	_, err := uc.MarkComplete(context.Background(), sess, "c1", "l1")
	assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)
}

func TestProgress_Snapshot(t *testing.T) {
	uc, _ := newTestUseCase(courseWithLessons("c1", "l1", "l2", "l3"))
	sess := &domain.Session{UserID: "u1", Role: domain.RoleStudent}
	ctx := context.Background()

	_, err := uc.Enroll(ctx, sess, "c1")
	require.NoError(t, err)
	_, err = uc.MarkComplete(ctx, sess, "c1", "l2")
	require.NoError(t, err)

	res, err := uc.Progress(ctx, sess, "c1")
	require.NoError(t, err)
	assert.Equal(t, 33, res.Percent)
	assert.False(t, res.Completed)
	assert.False(t, res.JustCompleted)
}

func TestLearnerDashboard(t *testing.T) {
	courseRepo := &fakeCourseRepo{courses: map[string]*domain.CourseModel{}}
	enrollRepo := newFakeEnrollmentRepo()
	enrollRepo.enrollments["u1:c1"] = &domain.EnrollmentModel{
		ID: "e1", LearnerID: "u1", CourseID: "c1", Completed: []string{"l1"},
	}
	enrollRepo.cards["c1"] = &domain.CourseCard{ID: "c1", LessonCount: 4}
	uc := NewEnrollmentUseCase(enrollRepo, courseRepo, &fakeIDGen{})

	dashboard, err := uc.LearnerDashboard(context.Background(), &domain.Session{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, dashboard, 1)
	assert.Equal(t, 25, dashboard[0].Percent)
}
