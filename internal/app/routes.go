package app

import (
	"github.com/MuhsinADA/ese-backend/internal/auth"
	"github.com/MuhsinADA/ese-backend/internal/cache"
	"github.com/MuhsinADA/ese-backend/internal/config"
	"github.com/MuhsinADA/ese-backend/internal/handlers"
	"github.com/MuhsinADA/ese-backend/internal/mail"
	"github.com/MuhsinADA/ese-backend/internal/media"
	"github.com/MuhsinADA/ese-backend/internal/middleware"
	"github.com/MuhsinADA/ese-backend/internal/repo"
	"github.com/MuhsinADA/ese-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, limiter *middleware.RateLimiter) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))
	r.Static("/media", cfg.Media.UploadDir)

	api := r.Group("/api/v1")

	tokenStore := auth.NewStore(rdb)
	tokens := auth.NewTokens(
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL.Duration(), cfg.JWT.RefreshTTL.Duration(),
		tokenStore,
	)

	images, err := media.NewDiskStore(cfg.Media.UploadDir, cfg.Media.BaseURL)
	if err != nil {
		return err
	}

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, mail.LogSender{}, images, tokenStore, cfg.Mail.FrontendURL)
	authHandler := handlers.NewAuthHandler(tokens, userSvc)

	// Credential endpoints are throttled per client IP, everything
	// behind auth per account.
	public := api.Group("", limiter.ForIP())
	registerAuthRoutes(public, authHandler)

	protected := api.Group("", auth.RequireAuth(tokens), limiter.ForUser())
	registerProfileRoutes(protected, authHandler)

	taskRepo := repo.NewPGTaskRepo(db)
	categoryRepo := repo.NewPGCategoryRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, categoryRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	registerTaskRoutes(protected, taskHandler)

	categorySvc := service.NewCategoryService(categoryRepo, taskCache)
	categoryHandler := handlers.NewCategoryHandler(categorySvc)
	registerCategoryRoutes(protected, categoryHandler)

	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Task Manager API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.Refresh)
	api.POST("/auth/password-reset", h.PasswordReset)
	api.POST("/auth/password-reset/confirm", h.PasswordResetConfirm)
}

func registerProfileRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/profile", h.Profile)
	api.PATCH("/auth/profile", h.UpdateProfile)
	api.POST("/auth/profile/upload-image", h.UploadImage)
	api.POST("/auth/change-password", h.ChangePassword)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.GET("/tasks/stats", h.Stats)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
}

func registerCategoryRoutes(api *gin.RouterGroup, h *handlers.CategoryHandler) {
	api.GET("/categories", h.List)
	api.POST("/categories", h.Create)
	api.PATCH("/categories/:id", h.Update)
	api.DELETE("/categories/:id", h.Delete)
}
