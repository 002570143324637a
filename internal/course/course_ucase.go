package course

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.elastic.co/apm"
	"go.uber.org/multierr"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/driver"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/uuid"
)

const catalogCacheKey = "catalog:published"

// CourseUseCaseImpl course authoring and catalog browsing
type CourseUseCaseImpl struct {
	CourseRepository domain.CourseRepository
	UUIDGenerator    uuid.Generator
	Cache            driver.KeyValueDB
	CatalogTTL       time.Duration
}

var _ domain.CourseUseCase = &CourseUseCaseImpl{}

// NewCourseUseCase create a course use case. Cache may be nil, catalog
// queries then always hit the repository.
func NewCourseUseCase(
	CourseRepository domain.CourseRepository,
	UUIDGenerator uuid.Generator,
	Cache driver.KeyValueDB,
	CatalogTTL time.Duration,
) *CourseUseCaseImpl {
	return &CourseUseCaseImpl{
		CourseRepository: CourseRepository,
		UUIDGenerator:    UUIDGenerator,
		Cache:            Cache,
		CatalogTTL:       CatalogTTL,
	}
}

// BrowseCatalog list published courses. The unfiltered listing is served from
// cache when possible; filtered queries always hit the repository.
func (cu *CourseUseCaseImpl) BrowseCatalog(ctx context.Context, filter *domain.CatalogFilter) ([]*domain.CourseCard, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CourseUseCaseImpl.BrowseCatalog", "service")
	defer apmSpan.End()

	cacheable := filter == nil || (filter.Category == "" && filter.Search == "")
	if cacheable && cu.Cache != nil {
		if raw, err := cu.Cache.Get(catalogCacheKey); err == nil {
			var cards []*domain.CourseCard
			if err := json.Unmarshal([]byte(raw), &cards); err == nil {
				return cards, nil
			}
		}
	}

	cards, err := cu.CourseRepository.QueryPublishedCourses(ctx, filter)
	if err != nil {
		return nil, err
	}
	if cacheable && cu.Cache != nil {
		if raw, err := json.Marshal(cards); err == nil {
			cu.Cache.SetEX(catalogCacheKey, string(raw), cu.CatalogTTL)
		}
	}
	return cards, nil
}

// GetCourse fetch a course with its lessons, reviews and instructor
func (cu *CourseUseCaseImpl) GetCourse(ctx context.Context, id string) (*domain.CourseModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CourseUseCaseImpl.GetCourse", "service")
	defer apmSpan.End()

	course, err := cu.CourseRepository.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	return course, nil
}

// InstructorCourses list the caller's own courses, drafts included
func (cu *CourseUseCaseImpl) InstructorCourses(ctx context.Context, sess *domain.Session) ([]*domain.CourseCard, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CourseUseCaseImpl.InstructorCourses", "service")
	defer apmSpan.End()

	if !sess.IsInstructor() {
		return nil, domain.ErrInstructorOnly
	}
	return cu.CourseRepository.QueryCoursesByInstructor(ctx, sess.UserID)
}

// CreateCourse create a course in draft (or published) state together with
// its initial titled lessons
func (cu *CourseUseCaseImpl) CreateCourse(ctx context.Context, sess *domain.Session, input *domain.NewCourse, drafts []domain.LessonDraft) (*domain.CourseModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CourseUseCaseImpl.CreateCourse", "service")
	defer apmSpan.End()

	if !sess.IsInstructor() {
		return nil, domain.ErrInstructorOnly
	}
	if err := ValidateDrafts(drafts); err != nil {
		return nil, err
	}

	id, err := cu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	course := &domain.CourseModel{
		ID:           id,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Price:        input.Price,
		Thumbnail:    input.Thumbnail,
		Published:    input.Published,
		InstructorID: sess.UserID,
	}
	if err := cu.CourseRepository.SaveCourse(ctx, course); err != nil {
		return nil, err
	}

	plan := Reconcile(drafts, nil)
	for _, create := range plan.Creates {
		lesson, err := cu.newLesson(course.ID, create)
		if err != nil {
			return nil, err
		}
		if err := cu.CourseRepository.SaveLesson(ctx, lesson); err != nil {
			return nil, err
		}
		course.Lessons = append(course.Lessons, lesson)
	}

	cu.invalidateCatalog()
	return course, nil
}

// UpdateCourse update course metadata, owner only
func (cu *CourseUseCaseImpl) UpdateCourse(ctx context.Context, sess *domain.Session, courseID string, input *domain.NewCourse) (*domain.CourseModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CourseUseCaseImpl.UpdateCourse", "service")
	defer apmSpan.End()

	course, err := cu.ownedCourse(ctx, sess, courseID)
	if err != nil {
		return nil, err
	}

	course.Title = input.Title
	course.Description = input.Description
	course.Category = input.Category
	course.Price = input.Price
	course.Thumbnail = input.Thumbnail
	course.Published = input.Published
	if err := cu.CourseRepository.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}

	cu.invalidateCatalog()
	return course, nil
}

// DeleteCourse delete a course and everything hanging off it, owner only
func (cu *CourseUseCaseImpl) DeleteCourse(ctx context.Context, sess *domain.Session, courseID string) error {
	apmSpan, ctx := apm.StartSpan(ctx, "CourseUseCaseImpl.DeleteCourse", "service")
	defer apmSpan.End()

	if _, err := cu.ownedCourse(ctx, sess, courseID); err != nil {
		return err
	}
	if err := cu.CourseRepository.DeleteCourse(ctx, courseID); err != nil {
		return err
	}
	cu.invalidateCatalog()
	return nil
}

// SaveLessons reconcile the instructor's edit buffer against the persisted
// lesson set and apply the plan: deletes, then updates, then creates. Partial
// failures are collected in the report; applied operations stay applied.
func (cu *CourseUseCaseImpl) SaveLessons(ctx context.Context, sess *domain.Session, courseID string, buffer []domain.LessonDraft, removedIDs []string) (*domain.SaveLessonsReport, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CourseUseCaseImpl.SaveLessons", "service")
	defer apmSpan.End()

	if err := ValidateDrafts(buffer); err != nil {
		return nil, err
	}
	course, err := cu.ownedCourse(ctx, sess, courseID)
	if err != nil {
		return nil, err
	}
	persisted := course.LessonIDSet()

	plan := Reconcile(buffer, removedIDs)
	report := &domain.SaveLessonsReport{}
	var applyErr error

	for _, id := range plan.Deletes {
		if _, ok := persisted[id]; !ok {
			report.Failures = append(report.Failures, domain.LessonFailure{Op: "delete", ID: id, Reason: domain.ErrLessonNotFound.Error()})
			applyErr = multierr.Append(applyErr, fmt.Errorf("delete lesson %s: %w", id, domain.ErrLessonNotFound))
			continue
		}
		if err := cu.CourseRepository.DeleteLesson(ctx, id); err != nil {
			report.Failures = append(report.Failures, domain.LessonFailure{Op: "delete", ID: id, Reason: err.Error()})
			applyErr = multierr.Append(applyErr, fmt.Errorf("delete lesson %s: %w", id, err))
			continue
		}
		report.Deleted++
	}
	for _, update := range plan.Updates {
		if _, ok := persisted[update.ID]; !ok {
			report.Failures = append(report.Failures, domain.LessonFailure{Op: "update", ID: update.ID, Title: update.Title, Reason: domain.ErrLessonNotFound.Error()})
			applyErr = multierr.Append(applyErr, fmt.Errorf("update lesson %s: %w", update.ID, domain.ErrLessonNotFound))
			continue
		}
		lesson := writeToLesson(courseID, update)
		if err := cu.CourseRepository.UpdateLesson(ctx, lesson); err != nil {
			report.Failures = append(report.Failures, domain.LessonFailure{Op: "update", ID: update.ID, Title: update.Title, Reason: err.Error()})
			applyErr = multierr.Append(applyErr, fmt.Errorf("update lesson %s: %w", update.ID, err))
			continue
		}
		report.Updated++
	}
	for _, create := range plan.Creates {
		lesson, err := cu.newLesson(courseID, create)
		if err == nil {
			err = cu.CourseRepository.SaveLesson(ctx, lesson)
		}
		if err != nil {
			report.Failures = append(report.Failures, domain.LessonFailure{Op: "create", Title: create.Title, Reason: err.Error()})
			applyErr = multierr.Append(applyErr, fmt.Errorf("create lesson %q: %w", create.Title, err))
			continue
		}
		report.Created++
	}

	cu.invalidateCatalog()
	return report, applyErr
}

func (cu *CourseUseCaseImpl) ownedCourse(ctx context.Context, sess *domain.Session, courseID string) (*domain.CourseModel, error) {
	if !sess.IsInstructor() {
		return nil, domain.ErrInstructorOnly
	}
	course, err := cu.CourseRepository.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	if course.InstructorID != sess.UserID {
		return nil, domain.ErrNotCourseOwner
	}
	return course, nil
}

func (cu *CourseUseCaseImpl) newLesson(courseID string, write domain.LessonWrite) (*domain.LessonModel, error) {
	id, err := cu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	lesson := writeToLesson(courseID, write)
	lesson.ID = id
	return lesson, nil
}

func (cu *CourseUseCaseImpl) invalidateCatalog() {
	if cu.Cache != nil {
		cu.Cache.Del(catalogCacheKey)
	}
}

func writeToLesson(courseID string, write domain.LessonWrite) *domain.LessonModel {
	lesson := &domain.LessonModel{
		ID:       write.ID,
		CourseID: courseID,
		Title:    write.Title,
		Kind:     write.Kind,
		Duration: write.Duration,
		Order:    write.Order,
	}
	// closed variant: only the payload field relevant to the kind is kept
	if write.Kind.Inline() {
		lesson.Content = write.Content
	} else {
		lesson.URL = write.URL
	}
	return lesson
}
