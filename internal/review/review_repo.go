package review

import (
	"context"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/driver"
)

type ReviewRepository struct {
	Conn driver.ITransactionalDB
}

var _ domain.ReviewRepository = &ReviewRepository{}

func NewReviewRepository(Conn driver.ITransactionalDB) *ReviewRepository {
	return &ReviewRepository{
		Conn: Conn,
	}
}

// GetReview the learner's review of a course, nil when none exists
func (repo *ReviewRepository) GetReview(ctx context.Context, learnerID, courseID string) (*domain.ReviewModel, error) {
	row, err := repo.Conn.QueryContext(ctx, `
SELECT
    id, course_id, learner_id, rating, comment, created_at, updated_at
FROM
    review
WHERE
    learner_id = $1 AND course_id = $2
	`, learnerID, courseID)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if !row.Next() {
		return nil, nil
	}
	review := new(domain.ReviewModel)
	if err := row.Scan(&review.ID, &review.CourseID, &review.LearnerID, &review.Rating,
		&review.Comment, &review.CreatedAt, &review.UpdatedAt); err != nil {
		return nil, err
	}
	return review, nil
}

// SaveReview insert a new review. The (learner_id, course_id) unique key turns
// a racing double submission into ErrDuplicateReview.
func (repo *ReviewRepository) SaveReview(ctx context.Context, review *domain.ReviewModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO review(id, course_id, learner_id, rating, comment)
VALUES($1,$2,$3,$4,$5)
	`, review.ID, review.CourseID, review.LearnerID, review.Rating, review.Comment)
	if driver.IsUniqueViolation(err) || driver.IsDuplicateEntry(err) {
		return domain.ErrDuplicateReview
	}
	return err
}

func (repo *ReviewRepository) UpdateReview(ctx context.Context, review *domain.ReviewModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
UPDATE review
SET rating=$1,
    comment=$2,
    updated_at=CURRENT_TIMESTAMP
WHERE id = $3
	`, review.Rating, review.Comment, review.ID)
	return err
}
