package app

import (
	"mcq_quiz_backend/docs"
	"mcq_quiz_backend/internal/middleware"
	"mcq_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func registerRoutes(router *gin.Engine, c *controllers, resolver middleware.UserResolver) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	router.POST("/register", c.auth.Register)
	router.POST("/login", c.auth.Login)
	router.GET("/category", c.category.ListCategories)
	router.GET("/category/:id", c.category.GetCategory)

	auth := middleware.AuthMiddleware(resolver)
	admin := middleware.AdminMiddleware(resolver)

	// 2. 登录用户
	router.GET("/profile", auth, c.auth.Profile)
	quiz := router.Group("/quiz", auth)
	{
		quiz.POST("/start", c.quiz.StartQuiz)
		quiz.POST("/submit", c.quiz.SubmitQuiz)
		quiz.GET("/attempts", c.quiz.ListAttempts)
		quiz.GET("/attempts/:attempt_id", c.quiz.GetAttempt)
	}

	// 3. 管理员
	router.POST("/category", admin, c.category.CreateCategory)
	router.PUT("/category/:id", admin, c.category.UpdateCategory)
	router.DELETE("/category/:id", admin, c.category.DeleteCategory)

	mcq := router.Group("/mcq", admin)
	{
		mcq.GET("", c.mcq.ListMCQs)
		mcq.GET("/:id", c.mcq.GetMCQ)
		mcq.POST("", c.mcq.CreateMCQ)
		mcq.POST("/upload", c.mcq.UploadMCQs)
		mcq.PUT("/:id", c.mcq.UpdateMCQ)
		mcq.DELETE("/:id", c.mcq.DeleteMCQ)
	}

	router.DELETE("/quiz/attempts/:attempt_id/questions", admin, c.quiz.DeleteAttemptQuestions)
}
