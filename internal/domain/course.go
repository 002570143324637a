package domain

import (
	"context"
	"time"
)

// CourseModel is an instructor-owned course. Lessons are kept sorted by their
// Order column, a dense zero-based position within the course.
type CourseModel struct {
	ID           string         `json:"id"`
	Title        string         `json:"title" validate:"required"`
	Description  string         `json:"description" validate:"required"`
	Category     string         `json:"category" validate:"required"`
	Price        int            `json:"price" validate:"min=0"`
	Thumbnail    string         `json:"thumbnail" validate:"omitempty,url"`
	Published    bool           `json:"published"`
	InstructorID string         `json:"instructor_id"`
	Instructor   *ProfileModel  `json:"instructor,omitempty"`
	Lessons      []*LessonModel `json:"lessons"`
	Reviews      []*ReviewModel `json:"reviews"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// AverageRating mean review rating, 0 when the course has no reviews
func (c *CourseModel) AverageRating() float64 {
	if len(c.Reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(c.Reviews))
}

// LessonIDSet lesson identifiers of the course as a membership set
func (c *CourseModel) LessonIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Lessons))
	for _, l := range c.Lessons {
		set[l.ID] = struct{}{}
	}
	return set
}

// CourseCard is the catalog projection of a course: no lesson bodies, rating
// already aggregated
type CourseCard struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Price          int     `json:"price"`
	Thumbnail      string  `json:"thumbnail"`
	Published      bool    `json:"published"`
	InstructorID   string  `json:"instructor_id"`
	InstructorName string  `json:"instructor_name"`
	LessonCount    int     `json:"lesson_count"`
	ReviewCount    int     `json:"review_count"`
	AverageRating  float64 `json:"average_rating"`
}

// CatalogFilter narrows the public course listing. Search matches title or
// description, case-insensitively.
type CatalogFilter struct {
	Category string
	Search   string
}

type CourseRepository interface {
	GetCourseByID(ctx context.Context, id string) (*CourseModel, error)
	QueryPublishedCourses(ctx context.Context, filter *CatalogFilter) ([]*CourseCard, error)
	QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]*CourseCard, error)
	SaveCourse(ctx context.Context, course *CourseModel) error
	UpdateCourse(ctx context.Context, course *CourseModel) error
	DeleteCourse(ctx context.Context, id string) error
	SaveLesson(ctx context.Context, lesson *LessonModel) error
	UpdateLesson(ctx context.Context, lesson *LessonModel) error
	DeleteLesson(ctx context.Context, id string) error
}

// NewCourse payload for course creation and metadata updates
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Price       int    `json:"price" validate:"min=0"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,url"`
	Published   bool   `json:"published"`
}

type CourseUseCase interface {
	BrowseCatalog(ctx context.Context, filter *CatalogFilter) ([]*CourseCard, error)
	GetCourse(ctx context.Context, id string) (*CourseModel, error)
	InstructorCourses(ctx context.Context, sess *Session) ([]*CourseCard, error)
	CreateCourse(ctx context.Context, sess *Session, input *NewCourse, drafts []LessonDraft) (*CourseModel, error)
	UpdateCourse(ctx context.Context, sess *Session, courseID string, input *NewCourse) (*CourseModel, error)
	DeleteCourse(ctx context.Context, sess *Session, courseID string) error
	SaveLessons(ctx context.Context, sess *Session, courseID string, buffer []LessonDraft, removedIDs []string) (*SaveLessonsReport, error)
}

// SaveLessonsReport outcome of applying a lesson reconciliation plan. Failures
// are reported per entity; applied operations stay applied.
type SaveLessonsReport struct {
	Deleted  int             `json:"deleted"`
	Updated  int             `json:"updated"`
	Created  int             `json:"created"`
	Failures []LessonFailure `json:"failures,omitempty"`
}

// LessonFailure one failed batch operation
type LessonFailure struct {
	Op     string `json:"op"` // delete, update or create
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}
