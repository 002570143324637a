package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduflow/eduflow-backend/internal/domain"
	infra "github.com/eduflow/eduflow-backend/internal/infrastructure"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/auth"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/validate"
)

// CourseHandler catalog browsing and course authoring
type CourseHandler struct {
	CourseUseCase domain.CourseUseCase
	JWTUtil       *auth.JWTUtil
	Validator     validate.Validator
}

func NewCourseHandler(
	CourseUseCase domain.CourseUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *CourseHandler {
	return &CourseHandler{
		CourseUseCase: CourseUseCase,
		JWTUtil:       JWTUtil,
		Validator:     Validator,
	}
}

type coursePost struct {
	domain.NewCourse
	Lessons []domain.LessonDraft `json:"lessons"`
}

type lessonsPost struct {
	Lessons    []domain.LessonDraft `json:"lessons"`
	RemovedIDs []string             `json:"removed_ids"`
}

// HandleBrowseCatalog the public course listing, optionally filtered by
// category and search term
func (ch *CourseHandler) HandleBrowseCatalog(c echo.Context) error {
	filter := &domain.CatalogFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	cards, err := ch.CourseUseCase.BrowseCatalog(c.Request().Context(), filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, cards)
}

// HandleGetCourse course detail with lessons, reviews and instructor
func (ch *CourseHandler) HandleGetCourse(c echo.Context) error {
	course, err := ch.CourseUseCase.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// HandleInstructorCourses the caller's own courses, drafts included
func (ch *CourseHandler) HandleInstructorCourses(c echo.Context) error {
	sess := session(ch.JWTUtil, c)
	cards, err := ch.CourseUseCase.InstructorCourses(c.Request().Context(), sess)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, cards)
}

// HandleCreateCourse create a course with its initial lessons
func (ch *CourseHandler) HandleCreateCourse(c echo.Context) error {
	post := new(coursePost)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}
	if fieldErrors := ch.Validator.Struct(&post.NewCourse); fieldErrors != nil {
		return c.JSON(http.StatusBadRequest,
			infra.NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fieldErrors))
	}

	sess := session(ch.JWTUtil, c)
	course, err := ch.CourseUseCase.CreateCourse(c.Request().Context(), sess, &post.NewCourse, post.Lessons)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, course)
}

// HandleUpdateCourse update course metadata, owner only
func (ch *CourseHandler) HandleUpdateCourse(c echo.Context) error {
	post := new(domain.NewCourse)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}
	if fieldErrors := ch.Validator.Struct(post); fieldErrors != nil {
		return c.JSON(http.StatusBadRequest,
			infra.NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fieldErrors))
	}

	sess := session(ch.JWTUtil, c)
	course, err := ch.CourseUseCase.UpdateCourse(c.Request().Context(), sess, c.Param("id"), post)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// HandleDeleteCourse delete a course, owner only
func (ch *CourseHandler) HandleDeleteCourse(c echo.Context) error {
	sess := session(ch.JWTUtil, c)
	if err := ch.CourseUseCase.DeleteCourse(c.Request().Context(), sess, c.Param("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSaveLessons apply an edit-buffer save. A partially applied plan comes
// back as 207 with the per-entity failure list.
func (ch *CourseHandler) HandleSaveLessons(c echo.Context) error {
	post := new(lessonsPost)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}

	sess := session(ch.JWTUtil, c)
	report, err := ch.CourseUseCase.SaveLessons(c.Request().Context(), sess, c.Param("id"), post.Lessons, post.RemovedIDs)
	if err != nil {
		if report != nil && len(report.Failures) > 0 {
			return c.JSON(http.StatusMultiStatus, report)
		}
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
