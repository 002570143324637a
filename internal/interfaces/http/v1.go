package http

import (
	"github.com/labstack/echo/v4"
)

func v1Endpoint(
	UserHandler *UserHandler,
	CourseHandler *CourseHandler,
	EnrollmentHandler *EnrollmentHandler,
	ReviewHandler *ReviewHandler,
	progressFeedHandler echo.HandlerFunc,
	jwtMiddleware echo.MiddlewareFunc,
	refreshMiddleware echo.MiddlewareFunc,
	requestIDMiddleware echo.MiddlewareFunc,
	traceLoggerMiddleware echo.MiddlewareFunc,
) *endpoint {
	authed := []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware}
	return &endpoint{
		apiVersion:  "api/v1",
		middlewares: []echo.MiddlewareFunc{requestIDMiddleware, traceLoggerMiddleware},
		groups: []*apiGroup{
			{
				prefix: "/user",
				routes: []*route{
					{"POST", "/sign-in", UserHandler.HandleSignIn, nil},
					{"POST", "/sign-up", UserHandler.HandleSignUp, nil},
					{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					{"GET", "/profile", UserHandler.HandleGetProfile, authed},
					{"PUT", "/profile", UserHandler.HandleUpdateProfile, authed},
				},
			},
			{
				prefix: "/course",
				routes: []*route{
					{"GET", "", CourseHandler.HandleBrowseCatalog, nil},
					{"GET", "/mine", CourseHandler.HandleInstructorCourses, authed},
					{"GET", "/:id", CourseHandler.HandleGetCourse, nil},
					{"POST", "", CourseHandler.HandleCreateCourse, authed},
					{"PUT", "/:id", CourseHandler.HandleUpdateCourse, authed},
					{"DELETE", "/:id", CourseHandler.HandleDeleteCourse, authed},
					{"PUT", "/:id/lessons", CourseHandler.HandleSaveLessons, authed},
				},
			},
			{
				prefix:      "/enrollment",
				middlewares: authed,
				routes: []*route{
					{"GET", "", EnrollmentHandler.HandleDashboard, nil},
					{"POST", "/:courseID", EnrollmentHandler.HandleEnroll, nil},
					{"GET", "/:courseID", EnrollmentHandler.HandleProgress, nil},
					{"PUT", "/:courseID/lessons/:lessonID", EnrollmentHandler.HandleMarkComplete, nil},
				},
			},
			{
				prefix:      "/review",
				middlewares: authed,
				routes: []*route{
					{"GET", "/:courseID/eligibility", ReviewHandler.HandleEligibility, nil},
					{"POST", "/:courseID", ReviewHandler.HandleSubmit, nil},
					{"PUT", "/:courseID", ReviewHandler.HandleUpdate, nil},
				},
			},
			{
				prefix: "/ws",
				routes: []*route{
					{"GET", "/progress", progressFeedHandler, []echo.MiddlewareFunc{jwtMiddleware}},
				},
			},
		},
	}
}
