package devapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
	"affiliate-dashboard/internal/domain/validation"
	authinfra "affiliate-dashboard/internal/infrastructure/auth"
	"affiliate-dashboard/internal/infrastructure/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	tokenIssuer = "devapi"
	ctxUserKey  = "devapi.user"
)

// Config 參考上游設定。
type Config struct {
	Secret      string
	TokenTTL    time.Duration
	ManagerCode string
	AdminCode   string
	Location    *time.Location
}

// Server 以 gin 提供儀表板所需的上游 REST API。
type Server struct {
	router *gin.Engine
	store  Store
	hasher PasswordHasher
	tokens *authinfra.JWTIssuer
	codes  map[auth.Role]string
	loc    *time.Location
	log    zerolog.Logger
	now    func() time.Time
}

// NewServer 建立參考上游並註冊路由。
func NewServer(cfg Config, store Store, hasher PasswordHasher, logger zerolog.Logger) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	s := &Server{
		store:  store,
		hasher: hasher,
		tokens: authinfra.NewJWTIssuer(cfg.Secret, cfg.TokenTTL, tokenIssuer),
		codes: map[auth.Role]string{
			auth.RoleManager: cfg.ManagerCode,
			auth.RoleAdmin:   cfg.AdminCode,
		},
		loc: loc,
		log: logging.Component(logger, "devapi"),
		now: time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler 回傳 http.Handler。
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(s.log))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/register-public", s.handleRegisterPublic)
	authGroup.GET("/me", s.requireAuth(), s.handleMe)
	authGroup.POST("/register", s.requireAuth(), s.requireRole(auth.RoleAdmin), s.handleRegister)

	bingx := api.Group("/bingx", s.requireAuth())
	bingx.POST("/data", s.requireRole(auth.RoleManager), s.handleCreateRecord)
	bingx.GET("/data", s.requireRole(auth.RoleManager), s.handleListRecords)
	bingx.GET("/all-data", s.requireRole(auth.RoleAdmin), s.handleAllRecords)

	vip := api.Group("/vip", s.requireAuth())
	vip.GET("/plans", s.handleListPlans)
	vip.GET("/members", s.requireRole(auth.RoleManager), s.handleListMembers)
	vip.POST("/members", s.requireRole(auth.RoleManager), s.handleCreateMember)
	vip.DELETE("/members/:id", s.requireRole(auth.RoleManager), s.handleDeleteMember)
	vip.GET("/all-members", s.requireRole(auth.RoleAdmin), s.handleAllMembers)

	trading := api.Group("/trading", s.requireAuth())
	trading.GET("/account", s.requireRole(auth.RoleManager), s.handleAccount)
	trading.POST("/deposit", s.requireRole(auth.RoleManager), s.handleDeposit)
	trading.POST("/operations", s.requireRole(auth.RoleManager), s.handleCreateOperation)
	trading.DELETE("/operations/:id", s.requireRole(auth.RoleManager), s.handleDeleteOperation)
	trading.GET("/all-data", s.requireRole(auth.RoleAdmin), s.handleAllTrading)

	traffer := api.Group("/traffer", s.requireAuth())
	traffer.GET("/activity", s.requireRole(auth.RoleTraffer), s.handleActivity)
	traffer.POST("/platforms", s.requireRole(auth.RoleTraffer), s.handleSavePlatforms)
	traffer.POST("/daily-report", s.requireRole(auth.RoleTraffer), s.handleCreateReport)
	traffer.GET("/all-data", s.requireRole(auth.RoleAdmin), s.handleAllTraffer)

	return r
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abort(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		claims, err := s.tokens.Parse(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		user, err := s.store.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func (s *Server) requireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Access denied")
	}
}

func currentUser(c *gin.Context) auth.User {
	v, _ := c.Get(ctxUserKey)
	user, _ := v.(auth.User)
	return user
}

func bearerToken(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// window 依 ?period= 計算查詢區間，未知值視為全部。
func (s *Server) window(c *gin.Context) period.Window {
	return period.Parse(c.Query("period")).Range(s.now().In(s.loc))
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// fail 將 store 與驗證錯誤轉成 HTTP 狀態。
func (s *Server) fail(c *gin.Context, err error) {
	if verr, ok := validation.As(err); ok {
		abort(c, http.StatusBadRequest, verr.Error())
		return
	}
	switch {
	case errors.Is(err, metrics.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		abort(c, http.StatusNotFound, "Not found")
	case errors.Is(err, metrics.ErrDepositAlreadySet):
		abort(c, http.StatusBadRequest, "Initial deposit already set")
	case errors.Is(err, metrics.ErrDepositNotSet):
		abort(c, http.StatusBadRequest, "Set the initial deposit first")
	case errors.Is(err, auth.ErrEmailTaken):
		abort(c, http.StatusBadRequest, "User already exists")
	default:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "Server error")
	}
}
