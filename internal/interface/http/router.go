package httpapi

import (
	appauth "affiliate-dashboard/internal/application/auth"
	"affiliate-dashboard/internal/infrastructure/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(s.log), s.corsMiddleware())

	api := r.Group("/api")
	api.GET("/ping", s.handlePing)
	api.GET("/health", s.handleHealth)
	api.GET("/periods", s.handlePeriods)
	api.GET("/platforms", s.handlePlatforms)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/logout", s.handleLogout)
	authGroup.GET("/me", s.requireAuth(""), s.handleMe)

	api.GET("/dashboard", s.requireAuth(appauth.PermDashboardView), s.handleDashboard)

	manager := api.Group("/manager", s.requireAuth(appauth.PermManagerEntry))
	manager.GET("", s.handleManagerDashboard)
	manager.POST("/bingx", s.handleSubmitBingX)
	manager.GET("/bingx/preview", s.handlePreviewProfit)
	manager.POST("/vip/members", s.handleAddVipMember)
	manager.DELETE("/vip/members/:id", s.handleRemoveVipMember)
	manager.POST("/trading/deposit", s.handleSetDeposit)
	manager.POST("/trading/operations", s.handleAddOperation)
	manager.DELETE("/trading/operations/:id", s.handleRemoveOperation)

	traffer := api.Group("/traffer", s.requireAuth(appauth.PermTrafferEntry))
	traffer.GET("", s.handleTrafferDashboard)
	traffer.POST("/platforms", s.handleSavePlatforms)
	traffer.POST("/reports", s.handleAddDailyReport)

	admin := api.Group("/admin", s.requireAuth(appauth.PermAdminReport))
	admin.GET("/report", s.handleAdminReport)
	admin.GET("/report.csv", s.handleAdminReportCSV)
	admin.POST("/users", s.requirePermission(appauth.PermUserManage), s.handleCreateUser)

	return r
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(s.cfg.HTTP.AllowOrigins) > 0 {
		cfg.AllowOrigins = s.cfg.HTTP.AllowOrigins
		cfg.AllowCredentials = true
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}
