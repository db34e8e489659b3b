package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/controllers"
	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/infrastructure/config"
)

// SetupRouter builds the gin engine with every route registered
func SetupRouter(container *container.ServiceContainer, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))
	r.Use(middleware.RequestID())

	registerRoutes(r, container)
	return r
}

// registerRoutes configures every API route
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes registers routes that need no token
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	public := api.Group("")
	// 10 requests per second, bursts of 20
	public.Use(middleware.IPRateLimiter(10, 20))

	public.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	public.GET("/health", controllers.HandleHealthFunc(container, "ping"))
	public.GET("/health/status", controllers.HandleHealthFunc(container, "status"))

	public.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes registers routes behind the bearer token
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	jwtService := container.GetService("jwt").(services.InterfaceJWTService)
	userService := container.GetService("user").(services.InterfaceUserService)
	dashboardService := container.GetService("dashboard").(services.InterfaceDashboardService)

	auth := api.Group("")
	auth.Use(middleware.Authentication(jwtService, userService))
	auth.Use(middleware.IPRateLimiter(30, 50))
	// any successful write can change any listing or counter
	auth.Use(middleware.OnSuccessfulWrite(func(c *gin.Context) {
		middleware.PurgeCache()
		dashboardService.InvalidateAdminStats(c.Request.Context())
	}))

	short := middleware.Cache(middleware.CacheConfig{Expiration: 10 * time.Second})
	medium := middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second})
	long := middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute})

	// current user
	auth.GET("/me", controllers.HandleUserFunc(container, "getMe"))
	auth.GET("/me/profile", controllers.HandleUserFunc(container, "getProfile"))
	auth.PUT("/me/profile", controllers.HandleUserFunc(container, "updateProfile"))

	auth.GET("/dashboard", medium, controllers.HandleDashboardFunc(container, "summary"))

	// administration
	adminGroup := auth.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin())
	{
		adminGroup.GET("/dashboard", controllers.HandleDashboardFunc(container, "adminStats"))
		adminGroup.GET("/users", medium, controllers.HandleUserFunc(container, "listUsers"))
		adminGroup.POST("/users", controllers.HandleUserFunc(container, "createUser"))
		adminGroup.PUT("/users/:id/role", controllers.HandleUserFunc(container, "changeRole"))
	}

	reportGroup := auth.Group("/reports")
	{
		reportGroup.GET("", medium, controllers.HandleReportFunc(container, "listReports"))
		reportGroup.GET("/:id", medium, controllers.HandleReportFunc(container, "getReport"))
		reportGroup.POST("", controllers.HandleReportFunc(container, "createReport"))
		reportGroup.PUT("/:id", controllers.HandleReportFunc(container, "updateReport"))
		reportGroup.DELETE("/:id", controllers.HandleReportFunc(container, "deleteReport"))
		reportGroup.POST("/:id/start", controllers.HandleReportFunc(container, "startProgress"))
		reportGroup.POST("/:id/resolve", controllers.HandleReportFunc(container, "resolveReport"))
		reportGroup.POST("/:id/reject", controllers.HandleReportFunc(container, "rejectReport"))
		reportGroup.POST("/:id/admin-comment", controllers.HandleReportFunc(container, "addAdminComment"))
	}

	fineGroup := auth.Group("/fines")
	{
		fineGroup.GET("", medium, controllers.HandleFineFunc(container, "listFines"))
		fineGroup.GET("/pending-total", medium, controllers.HandleFineFunc(container, "pendingTotal"))
		fineGroup.GET("/:id", medium, controllers.HandleFineFunc(container, "getFine"))
		fineGroup.POST("", controllers.HandleFineFunc(container, "createFine"))
		fineGroup.PUT("/:id", controllers.HandleFineFunc(container, "updateFine"))
		fineGroup.DELETE("/:id", controllers.HandleFineFunc(container, "deleteFine"))
		fineGroup.POST("/:id/pay", middleware.CombinedRateLimiter(1, 3), controllers.HandleFineFunc(container, "payFine"))
	}

	// panic alerts are never cached
	panicGroup := auth.Group("/panic-alerts")
	{
		panicGroup.GET("", controllers.HandlePanicFunc(container, "listAlerts"))
		panicGroup.POST("", middleware.CombinedRateLimiter(1, 5), controllers.HandlePanicFunc(container, "createAlert"))
		panicGroup.POST("/:id/deactivate", controllers.HandlePanicFunc(container, "deactivateAlert"))
	}

	lostItemGroup := auth.Group("/lost-items")
	{
		lostItemGroup.GET("", medium, controllers.HandleLostItemFunc(container, "listItems"))
		lostItemGroup.GET("/:id", medium, controllers.HandleLostItemFunc(container, "getItem"))
		lostItemGroup.POST("", controllers.HandleLostItemFunc(container, "createItem"))
		lostItemGroup.PUT("/:id", controllers.HandleLostItemFunc(container, "updateItem"))
		lostItemGroup.DELETE("/:id", controllers.HandleLostItemFunc(container, "deleteItem"))
		lostItemGroup.POST("/:id/found", controllers.HandleLostItemFunc(container, "markFound"))
	}

	announcementGroup := auth.Group("/announcements")
	{
		announcementGroup.GET("", medium, controllers.HandleAnnouncementFunc(container, "listAnnouncements"))
		announcementGroup.GET("/:id", medium, controllers.HandleAnnouncementFunc(container, "getAnnouncement"))
		announcementGroup.POST("", controllers.HandleAnnouncementFunc(container, "createAnnouncement"))
		announcementGroup.PUT("/:id", controllers.HandleAnnouncementFunc(container, "updateAnnouncement"))
		announcementGroup.DELETE("/:id", controllers.HandleAnnouncementFunc(container, "deleteAnnouncement"))
	}

	commentGroup := auth.Group("/comments")
	{
		commentGroup.GET("", short, controllers.HandleCommentFunc(container, "listComments"))
		commentGroup.POST("", controllers.HandleCommentFunc(container, "createComment"))
		commentGroup.PUT("/:id", controllers.HandleCommentFunc(container, "editComment"))
		commentGroup.DELETE("/:id", controllers.HandleCommentFunc(container, "deleteComment"))
	}

	areaGroup := auth.Group("/common-areas")
	{
		areaGroup.GET("", long, controllers.HandleReservationFunc(container, "listAreas"))
		areaGroup.POST("", controllers.HandleReservationFunc(container, "createArea"))
		areaGroup.PUT("/:id", controllers.HandleReservationFunc(container, "updateArea"))
		areaGroup.DELETE("/:id", controllers.HandleReservationFunc(container, "deleteArea"))
	}

	reservationGroup := auth.Group("/reservations")
	{
		reservationGroup.GET("", short, controllers.HandleReservationFunc(container, "listReservations"))
		reservationGroup.POST("", controllers.HandleReservationFunc(container, "createReservation"))
		reservationGroup.POST("/:id/cancel", controllers.HandleReservationFunc(container, "cancelReservation"))
	}
}
