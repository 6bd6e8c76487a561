package routes

import (
	"akatsuki/backend/controllers"
	"akatsuki/backend/middleware"
	"akatsuki/backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, d services.Deps, checker services.CodeChecker) {
	progressService := services.NewProgressService(d, checker)
	quizService := services.NewQuizService(d)
	courseService := services.NewCourseService(d)
	userService := services.NewUserService(d, courseService)
	commentService := services.NewCommentService(d)
	reactionService := services.NewReactionService(d)
	leaderboardService := services.NewLeaderboardService(d)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes
	authController := controllers.NewAuthController(userService, d.Log)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(d.Cfg, userService)

	app.Get("/api/auth/me", authMiddleware, authController.Me)

	// User routes
	userController := controllers.NewUserController(userService, d.Log)
	analyticsController := controllers.NewAnalyticsController(leaderboardService, d.Log)
	users := app.Group("/api/users", authMiddleware)
	users.Get("/profile", userController.GetProfile)
	users.Get("/leaderboard", analyticsController.GetLeaderboard)

	// Courses routes
	overviewController := controllers.NewOverviewController(courseService, d.Log)
	coursesController := controllers.NewCoursesController(courseService, d.Log)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", overviewController.ListCourses)
	courses.Post("/enroll", coursesController.Enroll)
	courses.Get("/my", coursesController.GetUserCourses)
	courses.Get("/my/:id", coursesController.GetUserCourse)
	courses.Put("/my/:id", coursesController.UpdateCourseProgress)
	courses.Get("/:id", overviewController.GetCourse)

	// Lessons routes
	progressController := controllers.NewProgressController(progressService, d.Log)
	testsController := controllers.NewTestsController(quizService, d.Log)
	commentsController := controllers.NewCommentsController(commentService, reactionService, d.Log)
	lessons := app.Group("/api/lessons", authMiddleware)
	lessons.Get("/:id", progressController.GetLesson)
	lessons.Post("/:id/progress", progressController.UpdateProgress)
	lessons.Post("/:id/check-code", progressController.CheckCode)
	lessons.Post("/:id/check-test", testsController.CheckTest)
	lessons.Post("/:id/comments", commentsController.AddLessonComment)
	lessons.Get("/:id/comments", commentsController.GetLessonComments)
	lessons.Post("/:id/like", commentsController.LikeLesson)
	lessons.Post("/:id/dislike", commentsController.DislikeLesson)
	lessons.Delete("/:id/like", commentsController.RemoveLessonReaction)
	lessons.Delete("/:id/dislike", commentsController.RemoveLessonReaction)

	// Comment routes
	comments := app.Group("/api/comments", authMiddleware)
	comments.Post("/:id/like", commentsController.LikeComment)
	comments.Delete("/:id/like", commentsController.UnlikeComment)

	// Certificates are publicly verifiable
	app.Get("/api/certificates/:code", coursesController.GetCertificate)
}
