package course

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduflow/eduflow-backend/internal/domain"
)

type fakeCourseRepo struct {
	courses map[string]*domain.CourseModel
	ops     []string // applied lesson operations, in order
	failOn  map[string]error
}

func newFakeCourseRepo(courses ...*domain.CourseModel) *fakeCourseRepo {
	repo := &fakeCourseRepo{
		courses: make(map[string]*domain.CourseModel),
		failOn:  make(map[string]error),
	}
	for _, c := range courses {
		repo.courses[c.ID] = c
	}
	return repo
}

func (f *fakeCourseRepo) GetCourseByID(ctx context.Context, id string) (*domain.CourseModel, error) {
	return f.courses[id], nil
}

func (f *fakeCourseRepo) QueryPublishedCourses(ctx context.Context, filter *domain.CatalogFilter) ([]*domain.CourseCard, error) {
	var result []*domain.CourseCard
	for _, c := range f.courses {
		if c.Published {
			result = append(result, &domain.CourseCard{ID: c.ID, Title: c.Title})
		}
	}
	return result, nil
}

func (f *fakeCourseRepo) QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]*domain.CourseCard, error) {
	var result []*domain.CourseCard
	for _, c := range f.courses {
		if c.InstructorID == instructorID {
			result = append(result, &domain.CourseCard{ID: c.ID, Title: c.Title})
		}
	}
	return result, nil
}

func (f *fakeCourseRepo) SaveCourse(ctx context.Context, course *domain.CourseModel) error {
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) UpdateCourse(ctx context.Context, course *domain.CourseModel) error {
	return nil
}

func (f *fakeCourseRepo) DeleteCourse(ctx context.Context, id string) error {
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) SaveLesson(ctx context.Context, lesson *domain.LessonModel) error {
	return f.apply("create " + lesson.Title)
}

func (f *fakeCourseRepo) UpdateLesson(ctx context.Context, lesson *domain.LessonModel) error {
	return f.apply("update " + lesson.ID)
}

func (f *fakeCourseRepo) DeleteLesson(ctx context.Context, id string) error {
	return f.apply("delete " + id)
}

func (f *fakeCourseRepo) apply(op string) error {
	if err := f.failOn[op]; err != nil {
		return err
	}
	f.ops = append(f.ops, op)
	return nil
}

type seqIDGen struct{ n int }

func (g *seqIDGen) Generate() (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

func instructor() *domain.Session {
	return &domain.Session{UserID: "inst-1", Role: domain.RoleInstructor}
}

func student() *domain.Session {
	return &domain.Session{UserID: "stud-1", Role: domain.RoleStudent}
}

func ownedCourse() *domain.CourseModel {
	return &domain.CourseModel{
		ID:           "c1",
		Title:        "Go from scratch",
		InstructorID: "inst-1",
		Lessons: []*domain.LessonModel{
			{ID: "A", Title: "intro", Order: 0},
			{ID: "B", Title: "setup", Order: 1},
		},
	}
}

func newTestUseCase(repo *fakeCourseRepo) *CourseUseCaseImpl {
	return NewCourseUseCase(repo, &seqIDGen{}, nil, time.Minute)
}

func TestSaveLessons_ApplyOrder(t *testing.T) {
	repo := newFakeCourseRepo(ownedCourse())
	uc := newTestUseCase(repo)

	buffer := []domain.LessonDraft{
		{ID: "A", Title: "intro v2", Kind: domain.LessonVideo, URL: "https://cdn/i.mp4"},
		{Title: "outro", Kind: domain.LessonText, Content: "bye"},
	}
	report, err := uc.SaveLessons(context.Background(), instructor(), "c1", buffer, []string{"B"})
	require.NoError(t, err)

	assert.Equal(t, []string{"delete B", "update A", "create outro"}, repo.ops)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Created)
	assert.Empty(t, report.Failures)
}

func TestSaveLessons_PartialFailure(t *testing.T) {
	repo := newFakeCourseRepo(ownedCourse())
	repo.failOn["update A"] = errors.New("row lock timeout")
	uc := newTestUseCase(repo)

	buffer := []domain.LessonDraft{
		{ID: "A", Title: "intro v2", Kind: domain.LessonVideo, URL: "https://cdn/i.mp4"},
		{Title: "outro", Kind: domain.LessonText, Content: "bye"},
	}
	report, err := uc.SaveLessons(context.Background(), instructor(), "c1", buffer, []string{"B"})
	require.Error(t, err)
	require.NotNil(t, report)

	// the failed update does not stop the create that follows
	assert.Equal(t, []string{"delete B", "create outro"}, repo.ops)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Created)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "update", report.Failures[0].Op)
	assert.Equal(t, "A", report.Failures[0].ID)
	assert.Contains(t, report.Failures[0].Reason, "row lock timeout")
}

func TestSaveLessons_Gates(t *testing.T) {
	repo := newFakeCourseRepo(ownedCourse())
	uc := newTestUseCase(repo)
	ctx := context.Background()

	_, err := uc.SaveLessons(ctx, student(), "c1", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInstructorOnly)

	other := &domain.Session{UserID: "inst-2", Role: domain.RoleInstructor}
	_, err = uc.SaveLessons(ctx, other, "c1", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotCourseOwner)

	_, err = uc.SaveLessons(ctx, instructor(), "missing", nil, nil)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)

	// invalid kinds are rejected before the course is even fetched
	bad := []domain.LessonDraft{{Title: "x", Kind: "hologram"}}
	_, err = uc.SaveLessons(ctx, instructor(), "c1", bad, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidLessonKind)
	assert.Empty(t, repo.ops)
}

func TestCreateCourse(t *testing.T) {
	repo := newFakeCourseRepo()
	uc := newTestUseCase(repo)

	drafts := []domain.LessonDraft{
		{Title: "intro", Kind: domain.LessonVideo, URL: "https://cdn/i.mp4"},
		{Title: ""}, // abandoned draft, dropped
		{Title: "wrap up", Kind: domain.LessonText, Content: "done"},
	}
	course, err := uc.CreateCourse(context.Background(), instructor(), &domain.NewCourse{
		Title:       "Go from scratch",
		Description: "zero to prod",
		Category:    "programming",
		Price:       49,
	}, drafts)
	require.NoError(t, err)

	assert.Equal(t, "inst-1", course.InstructorID)
	require.Len(t, course.Lessons, 2)
	assert.Equal(t, 0, course.Lessons[0].Order)
	assert.Equal(t, 2, course.Lessons[1].Order)

	_, err = uc.CreateCourse(context.Background(), student(), &domain.NewCourse{Title: "nope"}, nil)
	assert.ErrorIs(t, err, domain.ErrInstructorOnly)
}

func TestGetCourse_NotFound(t *testing.T) {
	uc := newTestUseCase(newFakeCourseRepo())
	_, err := uc.GetCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestDeleteCourse(t *testing.T) {
	repo := newFakeCourseRepo(ownedCourse())
	uc := newTestUseCase(repo)

	err := uc.DeleteCourse(context.Background(), instructor(), "c1")
	require.NoError(t, err)
	assert.NotContains(t, repo.courses, "c1")
}

func TestWriteToLesson_PayloadByKind(t *testing.T) {
	text := writeToLesson("c1", domain.LessonWrite{
		LessonDraft: domain.LessonDraft{Title: "t", Kind: domain.LessonText, Content: "body", URL: "https://cdn/x"},
	})
	assert.Equal(t, "body", text.Content)
	assert.Empty(t, text.URL)

	video := writeToLesson("c1", domain.LessonWrite{
		LessonDraft: domain.LessonDraft{Title: "v", Kind: domain.LessonVideo, Content: "junk", URL: "https://cdn/v.mp4"},
	})
	assert.Equal(t, "https://cdn/v.mp4", video.URL)
	assert.Empty(t, video.Content)
}
