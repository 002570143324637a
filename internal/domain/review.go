package domain

import (
	"context"
	"time"
)

// Rating bounds, inclusive
const (
	MinRating = 1
	MaxRating = 5
)

// ReviewModel one learner's review of a course. At most one exists per
// (learner, course) pair; edits go through the update path.
type ReviewModel struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id"`
	LearnerID string     `json:"learner_id"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment,omitempty"`
	Reviewer  string     `json:"reviewer,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ReviewRepository interface {
	GetReview(ctx context.Context, learnerID, courseID string) (*ReviewModel, error)
	SaveReview(ctx context.Context, review *ReviewModel) error
	UpdateReview(ctx context.Context, review *ReviewModel) error
}

// NewReview submission payload
type NewReview struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewUseCase interface {
	CanReview(ctx context.Context, sess *Session, courseID string) (bool, error)
	SubmitReview(ctx context.Context, sess *Session, courseID string, input *NewReview) (*ReviewModel, error)
	UpdateReview(ctx context.Context, sess *Session, courseID string, input *NewReview) (*ReviewModel, error)
}
