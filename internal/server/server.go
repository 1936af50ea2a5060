package server

import (
	"strings"
	"time"

	"github.com/ehub-dev/learning-hub/internal/config"
	"github.com/ehub-dev/learning-hub/internal/handler"
	"github.com/ehub-dev/learning-hub/internal/middleware"
	"github.com/ehub-dev/learning-hub/internal/repository"
	"github.com/ehub-dev/learning-hub/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, redisClient, cfg.LoginLockout)
	authHandler := handler.NewAuthHandler(authSvc)

	courseSvc := service.NewCourseService(courseRepo, enrollRepo)
	enrollSvc := service.NewEnrollmentService(enrollRepo, courseRepo)
	courseHandler := handler.NewCourseHandler(courseSvc, enrollSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/signup", authHandler.Signup)
		users.POST("/login", authHandler.Login)
		users.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		users.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
	}

	courses := api.Group("/courses")
	{
		// Reads are public; OptionalAuth lets is_enrolled be computed for
		// logged-in callers.
		courses.GET("", authMiddleware.OptionalAuth(), courseHandler.List)
		courses.GET("/categories", courseHandler.Categories)
		courses.GET("/:id", authMiddleware.OptionalAuth(), courseHandler.Get)

		protected := courses.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.POST("", courseHandler.Create)
			protected.PUT("/:id", courseHandler.Update)
			protected.PATCH("/:id", courseHandler.Update)
			protected.DELETE("/:id", courseHandler.Delete)

			protected.POST("/:id/enroll", courseHandler.Enroll)
			protected.POST("/:id/unenroll", courseHandler.Unenroll)
			protected.GET("/my_enrollments", courseHandler.MyEnrollments)
			protected.GET("/my_courses", courseHandler.MyCourses)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
