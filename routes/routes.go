// File: /routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"fuellog-api/analytics"
	"fuellog-api/config"
	"fuellog-api/controllers"
	"fuellog-api/middleware"
	"fuellog-api/repositories"
	"fuellog-api/services"
)

// Services holds everything the HTTP layer calls into.
type Services struct {
	Tokens   *services.TokenService
	Auth     *services.AuthService
	Refuels  *services.RefuelService
	Feedback *services.FeedbackService
	Storage  *services.StorageService
	Limiter  *middleware.RateLimiter
}

// NewServices wires repositories and external clients from configuration.
func NewServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	storage, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	mailer := services.NewEmailService(cfg)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	wechat := services.NewWeChatService(cfg.WeChatAppID, cfg.WeChatAppSecret, cfg.WeChatAPIBase, nil)
	wecom := services.NewWeComService(cfg.WeComWebhook, nil)

	return &Services{
		Tokens:   tokens,
		Auth:     services.NewAuthService(repositories.NewUserRepository(db), tokens, wechat, mailer),
		Refuels:  services.NewRefuelService(repositories.NewRefuelRepository(db), analytics.NewCalculator(cfg.Location())),
		Feedback: services.NewFeedbackService(repositories.NewFeedbackRepository(db), wecom, mailer),
		Storage:  storage,
		Limiter:  middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
	}, nil
}

func SetupRoutes(r *gin.Engine, svc *Services, cfg *config.Config) {
	authController := controllers.NewAuthController(svc.Auth)
	userController := controllers.NewUserController(svc.Auth)
	refuelController := controllers.NewRefuelController(svc.Refuels)
	feedbackController := controllers.NewFeedbackController(svc.Feedback)
	uploadController := controllers.NewUploadController(svc.Storage)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"storage": svc.Storage.Enabled(),
		})
	}
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	v1.Use(svc.Limiter.Handler(cfg.RateLimitPerMinute), middleware.ValidateJSON())
	v1.GET("/health", health)

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/wechat", authController.WeChatLogin)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(svc.Tokens))
	{
		protected.GET("/auth/me", userController.GetProfile)

		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
		}

		refuels := protected.Group("/refuels")
		{
			refuels.GET("", refuelController.GetRefuels)
			refuels.POST("", refuelController.CreateRefuel)
			refuels.GET("/years", refuelController.GetYears)
			refuels.GET("/stats", refuelController.GetStats)
			refuels.GET("/:id", refuelController.GetRefuel)
			refuels.PUT("/:id", refuelController.UpdateRefuel)
			refuels.DELETE("/:id", refuelController.DeleteRefuel)
		}

		feedback := protected.Group("/feedback")
		{
			feedback.GET("", feedbackController.GetFeedback)
			feedback.POST("", feedbackController.CreateFeedback)
		}

		protected.POST("/uploads", uploadController.UploadImage)
	}
}
