package course

import (
	"context"
	"fmt"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/driver"
)

type CourseRepository struct {
	Conn driver.ITransactionalDB
}

var _ domain.CourseRepository = &CourseRepository{}

func NewCourseRepository(Conn driver.ITransactionalDB) *CourseRepository {
	return &CourseRepository{
		Conn: Conn,
	}
}

const catalogSelect = `
SELECT
    c.id, c.title, c.description, c.category, c.price, c.thumbnail,
    c.published, c.instructor_id, p.full_name,
    (SELECT COUNT(*) FROM lesson l WHERE l.course_id = c.id) lesson_count,
    (SELECT COUNT(*) FROM review r WHERE r.course_id = c.id) review_count,
    (SELECT COALESCE(AVG(r.rating), 0) FROM review r WHERE r.course_id = c.id) average_rating
FROM
    course c
        LEFT JOIN
    user_profile p ON (p.id = c.instructor_id)
`

// GetCourseByID fetch one course with its instructor, lessons (sorted by
// position) and reviews. Returns nil without error when the id is unknown.
func (repo *CourseRepository) GetCourseByID(ctx context.Context, id string) (*domain.CourseModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `
SELECT
    c.id, c.title, c.description, c.category, c.price, c.thumbnail,
    c.published, c.instructor_id, c.created_at, c.updated_at,
    p.email, p.full_name, p.avatar_url, p.role
FROM
    course c
        LEFT JOIN
    user_profile p ON (p.id = c.instructor_id)
WHERE
    c.id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if !row.Next() {
		return nil, nil
	}
	course := new(domain.CourseModel)
	instructor := new(domain.ProfileModel)
	if err := row.Scan(&course.ID, &course.Title, &course.Description, &course.Category,
		&course.Price, &course.Thumbnail, &course.Published, &course.InstructorID,
		&course.CreatedAt, &course.UpdatedAt,
		&instructor.Email, &instructor.FullName, &instructor.AvatarURL, &instructor.Role,
	); err != nil {
		return nil, err
	}
	instructor.ID = course.InstructorID
	course.Instructor = instructor
	row.Close()

	if course.Lessons, err = repo.queryLessons(ctx, course.ID); err != nil {
		return nil, err
	}
	if course.Reviews, err = repo.queryReviews(ctx, course.ID); err != nil {
		return nil, err
	}
	return course, nil
}

func (repo *CourseRepository) queryLessons(ctx context.Context, courseID string) ([]*domain.LessonModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    id, course_id, title, kind, content, url, duration, "order"
FROM
    lesson
WHERE
    course_id = $1
ORDER BY "order"
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.LessonModel
	for rows.Next() {
		item := new(domain.LessonModel)
		if err := rows.Scan(&item.ID, &item.CourseID, &item.Title, &item.Kind,
			&item.Content, &item.URL, &item.Duration, &item.Order); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *CourseRepository) queryReviews(ctx context.Context, courseID string) ([]*domain.ReviewModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    r.id, r.course_id, r.learner_id, r.rating, r.comment, p.full_name, r.created_at, r.updated_at
FROM
    review r
        LEFT JOIN
    user_profile p ON (p.id = r.learner_id)
WHERE
    r.course_id = $1
ORDER BY r.created_at DESC
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.ReviewModel
	for rows.Next() {
		item := new(domain.ReviewModel)
		if err := rows.Scan(&item.ID, &item.CourseID, &item.LearnerID, &item.Rating,
			&item.Comment, &item.Reviewer, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

// QueryPublishedCourses the public catalog, optionally narrowed by category
// and a case-insensitive title/description search
func (repo *CourseRepository) QueryPublishedCourses(ctx context.Context, filter *domain.CatalogFilter) ([]*domain.CourseCard, error) {
	query := catalogSelect + ` WHERE c.published = TRUE`
	var args []interface{}
	if filter != nil {
		if filter.Category != "" {
			args = append(args, filter.Category)
			query += fmt.Sprintf(" AND c.category = $%d", len(args))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			n := len(args)
			query += fmt.Sprintf(" AND (LOWER(c.title) LIKE LOWER($%d) OR LOWER(c.description) LIKE LOWER($%d))", n, n)
		}
	}
	query += ` ORDER BY c.created_at DESC`
	return repo.queryCards(ctx, query, args...)
}

// QueryCoursesByInstructor every course of one instructor, drafts included
func (repo *CourseRepository) QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]*domain.CourseCard, error) {
	query := catalogSelect + ` WHERE c.instructor_id = $1 ORDER BY c.created_at DESC`
	return repo.queryCards(ctx, query, instructorID)
}

func (repo *CourseRepository) queryCards(ctx context.Context, query string, args ...interface{}) ([]*domain.CourseCard, error) {
	rows, err := repo.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.CourseCard
	for rows.Next() {
		item := new(domain.CourseCard)
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Category,
			&item.Price, &item.Thumbnail, &item.Published, &item.InstructorID,
			&item.InstructorName, &item.LessonCount, &item.ReviewCount, &item.AverageRating,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *CourseRepository) SaveCourse(ctx context.Context, course *domain.CourseModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO course(id, title, description, category, price, thumbnail, published, instructor_id)
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
	`, course.ID, course.Title, course.Description, course.Category,
		course.Price, course.Thumbnail, course.Published, course.InstructorID)
	return err
}

func (repo *CourseRepository) UpdateCourse(ctx context.Context, course *domain.CourseModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
UPDATE course
SET title=$1,
    description=$2,
    category=$3,
    price=$4,
    thumbnail=$5,
    published=$6,
    updated_at=CURRENT_TIMESTAMP
WHERE id = $7
	`, course.Title, course.Description, course.Category,
		course.Price, course.Thumbnail, course.Published, course.ID)
	return err
}

// DeleteCourse cascades to lessons, enrollments and reviews through the
// schema's foreign keys
func (repo *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	_, err := repo.Conn.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	return err
}

func (repo *CourseRepository) SaveLesson(ctx context.Context, lesson *domain.LessonModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO lesson(id, course_id, title, kind, content, url, duration, "order")
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
	`, lesson.ID, lesson.CourseID, lesson.Title, lesson.Kind,
		lesson.Content, lesson.URL, lesson.Duration, lesson.Order)
	return err
}

func (repo *CourseRepository) UpdateLesson(ctx context.Context, lesson *domain.LessonModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
UPDATE lesson
SET title=$1,
    kind=$2,
    content=$3,
    url=$4,
    duration=$5,
    "order"=$6
WHERE id = $7 AND course_id = $8
	`, lesson.Title, lesson.Kind, lesson.Content, lesson.URL,
		lesson.Duration, lesson.Order, lesson.ID, lesson.CourseID)
	return err
}

func (repo *CourseRepository) DeleteLesson(ctx context.Context, id string) error {
	_, err := repo.Conn.ExecContext(ctx, `DELETE FROM lesson WHERE id = $1`, id)
	return err
}
