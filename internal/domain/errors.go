package domain

import "errors"

// Not-found family: a referenced record does not resolve
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson does not belong to this course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Eligibility family: the caller may not perform the operation in its current
// state. Raised before any write is attempted.
var (
	ErrAlreadyEnrolled = errors.New("learner is already enrolled in this course")
	ErrNotEligible     = errors.New("learner is not eligible to review this course")
	ErrDuplicateReview = errors.New("a review for this course already exists")
	ErrNotCourseOwner  = errors.New("course belongs to another instructor")
	ErrInstructorOnly  = errors.New("only instructors may manage courses")
)

// Validation family
var (
	ErrRatingOutOfRange  = errors.New("rating must be between 1 and 5")
	ErrInvalidLessonKind = errors.New("lesson kind must be one of video, text, pdf, audio")
)

// ErrDuplicatedUser unique key constraint violation on sign-up
var ErrDuplicatedUser = errors.New("an account with this email is already registered")

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("no such user or password is incorrect")

// ErrUserTooManyRetry login retry budget exhausted
var ErrUserTooManyRetry = errors.New("too many failed sign-in attempts")
