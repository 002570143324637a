package enrollment

import (
	"context"
	"database/sql"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/driver"
)

type EnrollmentRepository struct {
	Conn driver.ITransactionalDB
}

var _ domain.EnrollmentRepository = &EnrollmentRepository{}

func NewEnrollmentRepository(Conn driver.ITransactionalDB) *EnrollmentRepository {
	return &EnrollmentRepository{
		Conn: Conn,
	}
}

// GetEnrollmentByID fetch one enrollment with its completed lesson set.
// Returns nil without error when the id is unknown.
func (repo *EnrollmentRepository) GetEnrollmentByID(ctx context.Context, id string) (*domain.EnrollmentModel, error) {
	return repo.queryOne(ctx, `SELECT id, learner_id, course_id, enrolled_at
FROM enrollment WHERE id = $1`, id)
}

// GetEnrollment fetch the enrollment of one learner in one course
func (repo *EnrollmentRepository) GetEnrollment(ctx context.Context, learnerID, courseID string) (*domain.EnrollmentModel, error) {
	return repo.queryOne(ctx, `SELECT id, learner_id, course_id, enrolled_at
FROM enrollment WHERE learner_id = $1 AND course_id = $2`, learnerID, courseID)
}

func (repo *EnrollmentRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*domain.EnrollmentModel, error) {
	row, err := repo.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if !row.Next() {
		return nil, nil
	}
	enrollment := new(domain.EnrollmentModel)
	if err := row.Scan(&enrollment.ID, &enrollment.LearnerID, &enrollment.CourseID, &enrollment.EnrolledAt); err != nil {
		return nil, err
	}
	row.Close()

	if enrollment.Completed, err = repo.queryCompleted(ctx, enrollment.ID); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (repo *EnrollmentRepository) queryCompleted(ctx context.Context, enrollmentID string) ([]string, error) {
	rows, err := repo.Conn.QueryContext(ctx, `SELECT lesson_id
FROM enrollment_progress WHERE enrollment_id = $1`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		completed = append(completed, id)
	}
	return completed, nil
}

// QueryEnrollmentsByLearner dashboard listing: every enrollment of the learner
// joined with its course card and completed lesson count
func (repo *EnrollmentRepository) QueryEnrollmentsByLearner(ctx context.Context, learnerID string) ([]*domain.EnrolledCourse, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    e.id, e.learner_id, e.course_id, e.enrolled_at,
    c.id, c.title, c.description, c.category, c.price, c.thumbnail,
    c.published, c.instructor_id, p.full_name,
    (SELECT COUNT(*) FROM lesson l WHERE l.course_id = c.id) lesson_count,
    (SELECT COUNT(*) FROM review r WHERE r.course_id = c.id) review_count,
    (SELECT COALESCE(AVG(r.rating), 0) FROM review r WHERE r.course_id = c.id) average_rating
FROM
    enrollment e
        LEFT JOIN
    course c ON (c.id = e.course_id)
        LEFT JOIN
    user_profile p ON (p.id = c.instructor_id)
WHERE
    e.learner_id = $1
ORDER BY e.enrolled_at DESC
	`, learnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.EnrolledCourse
	for rows.Next() {
		enrollment := new(domain.EnrollmentModel)
		card := new(domain.CourseCard)
		if err := rows.Scan(&enrollment.ID, &enrollment.LearnerID, &enrollment.CourseID, &enrollment.EnrolledAt,
			&card.ID, &card.Title, &card.Description, &card.Category, &card.Price, &card.Thumbnail,
			&card.Published, &card.InstructorID, &card.InstructorName,
			&card.LessonCount, &card.ReviewCount, &card.AverageRating,
		); err != nil {
			return nil, err
		}
		result = append(result, &domain.EnrolledCourse{Enrollment: enrollment, Course: card})
	}
	rows.Close()

	for _, item := range result {
		completed, err := repo.queryCompleted(ctx, item.Enrollment.ID)
		if err != nil {
			return nil, err
		}
		item.Enrollment.Completed = completed
	}
	return result, nil
}

// SaveEnrollment insert a new enrollment. The (learner_id, course_id) unique
// key turns double enrollment into ErrAlreadyEnrolled.
func (repo *EnrollmentRepository) SaveEnrollment(ctx context.Context, enrollment *domain.EnrollmentModel) error {
	_, err := repo.Conn.ExecContext(ctx, `INSERT INTO enrollment(id, learner_id, course_id)
VALUES($1,$2,$3)`, enrollment.ID, enrollment.LearnerID, enrollment.CourseID)
	if driver.IsUniqueViolation(err) || driver.IsDuplicateEntry(err) {
		return domain.ErrAlreadyEnrolled
	}
	return err
}

// UpdateProgress replace the completed lesson set of an enrollment inside one
// transaction, so readers never observe a half-written set
func (repo *EnrollmentRepository) UpdateProgress(ctx context.Context, enrollmentID string, completed []string) error {
	tx, err := repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollment_progress
WHERE enrollment_id = $1`, enrollmentID); err != nil {
		tx.Rollback(ctx)
		return err
	}
	for _, lessonID := range completed {
		if _, err := tx.ExecContext(ctx, `INSERT INTO enrollment_progress(enrollment_id, lesson_id)
VALUES($1,$2)`, enrollmentID, lessonID); err != nil {
			tx.Rollback(ctx)
			return err
		}
	}
	return tx.Commit(ctx)
}
