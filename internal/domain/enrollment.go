package domain

import (
	"context"
	"time"
)

// EnrollmentStatus review lifecycle of an enrollment. Transitions only move
// forward: Enrolled -> InProgress -> Completed -> Reviewed.
type EnrollmentStatus string

const (
	StatusEnrolled   EnrollmentStatus = "enrolled"
	StatusInProgress EnrollmentStatus = "in_progress"
	StatusCompleted  EnrollmentStatus = "completed"
	StatusReviewed   EnrollmentStatus = "reviewed"
)

// EnrollmentModel links one learner to one course. Completed is the monotonic
// set of finished lesson identifiers; lessons are never un-completed.
type EnrollmentModel struct {
	ID         string     `json:"id"`
	LearnerID  string     `json:"learner_id"`
	CourseID   string     `json:"course_id"`
	Completed  []string   `json:"completed"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
}

// HasCompleted membership test on the completed set
func (e *EnrollmentModel) HasCompleted(lessonID string) bool {
	for _, id := range e.Completed {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Status derives the lifecycle state from the completed set, the course lesson
// count and whether a review exists
func (e *EnrollmentModel) Status(course *CourseModel, reviewed bool) EnrollmentStatus {
	if reviewed {
		return StatusReviewed
	}
	if len(course.Lessons) > 0 && len(e.Completed) >= len(course.Lessons) {
		return StatusCompleted
	}
	if len(e.Completed) > 0 {
		return StatusInProgress
	}
	return StatusEnrolled
}

// EnrolledCourse dashboard projection: an enrollment joined with its course
// card and the derived completion percentage
type EnrolledCourse struct {
	Enrollment *EnrollmentModel `json:"enrollment"`
	Course     *CourseCard      `json:"course"`
	Percent    int              `json:"percent"`
}

type EnrollmentRepository interface {
	GetEnrollmentByID(ctx context.Context, id string) (*EnrollmentModel, error)
	GetEnrollment(ctx context.Context, learnerID, courseID string) (*EnrollmentModel, error)
	QueryEnrollmentsByLearner(ctx context.Context, learnerID string) ([]*EnrolledCourse, error)
	SaveEnrollment(ctx context.Context, enrollment *EnrollmentModel) error
	UpdateProgress(ctx context.Context, enrollmentID string, completed []string) error
}

// ProgressResult snapshot returned by the progress tracker. JustCompleted is
// edge-triggered: true only on the MarkComplete call that filled the set.
type ProgressResult struct {
	Enrollment    *EnrollmentModel `json:"enrollment"`
	Percent       int              `json:"percent"`
	Completed     bool             `json:"completed"`
	JustCompleted bool             `json:"just_completed"`
}

type EnrollmentUseCase interface {
	Enroll(ctx context.Context, sess *Session, courseID string) (*EnrollmentModel, error)
	MarkComplete(ctx context.Context, sess *Session, courseID, lessonID string) (*ProgressResult, error)
	Progress(ctx context.Context, sess *Session, courseID string) (*ProgressResult, error)
	LearnerDashboard(ctx context.Context, sess *Session) ([]*EnrolledCourse, error)
}
