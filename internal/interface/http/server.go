package httpapi

import (
	"context"
	"net/http"
	"time"

	appauth "affiliate-dashboard/internal/application/auth"
	"affiliate-dashboard/internal/application/dashboard"
	"affiliate-dashboard/internal/application/reports"
	"affiliate-dashboard/internal/domain/auth"
	authinfra "affiliate-dashboard/internal/infrastructure/auth"
	"affiliate-dashboard/internal/infrastructure/config"
	"affiliate-dashboard/internal/infrastructure/external/backend"
	"affiliate-dashboard/internal/infrastructure/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	tokenIssuer        = "affiliate-dashboard"
	defaultTokenTTL    = 12 * time.Hour
	accessCookieName   = "access_token"
	sessionCleanupWait = 5 * time.Second
)

// Upstream 單一 session 身分下可呼叫的上游操作。
type Upstream interface {
	Me(ctx context.Context) (auth.User, error)
	RegisterUser(ctx context.Context, reg auth.Registration) (auth.User, error)
	dashboard.ManagerGateway
	dashboard.TrafferGateway
	reports.Source
}

// Server 封裝 gateway 路由與依賴。
type Server struct {
	router     *gin.Engine
	cfg        config.Config
	client     *backend.Client
	sessions   auth.SessionStore
	tokens     *authinfra.JWTIssuer
	loginUC    *appauth.LoginUseCase
	registerUC *appauth.RegisterUseCase
	logoutUC   *appauth.LogoutUseCase
	authz      *appauth.Authorizer
	reportOpts reports.Options
	log        zerolog.Logger
	now        func() time.Time
	bind       func(tokens backend.TokenSource) Upstream
}

// NewServer 建立 gateway；client 為未綁定身分的上游 client，每個請求再綁定該 session 的 token。
func NewServer(cfg config.Config, client *backend.Client, sessions auth.SessionStore, logger zerolog.Logger) *Server {
	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	tokens := authinfra.NewJWTIssuer(cfg.Auth.Secret, ttl, tokenIssuer)

	s := &Server{
		cfg:        cfg,
		client:     client,
		sessions:   sessions,
		tokens:     tokens,
		loginUC:    appauth.NewLoginUseCase(client, sessions, tokens),
		registerUC: appauth.NewRegisterUseCase(client, sessions, tokens),
		logoutUC:   appauth.NewLogoutUseCase(sessions),
		authz:      appauth.NewAuthorizer(),
		reportOpts: reports.Options{
			Location:         cfg.Location(),
			SkipClientFilter: cfg.Dashboard.SkipClientFilter,
			TrendPoints:      cfg.Dashboard.TrendPoints,
		},
		log: logging.Component(logger, "gateway"),
		now: time.Now,
		bind: func(tokens backend.TokenSource) Upstream {
			return client.WithTokens(tokens)
		},
	}
	s.router = s.registerRoutes()
	return s
}

// Handler 回傳路由處理器，供 HTTP server 掛載。
func (s *Server) Handler() http.Handler {
	return s.router
}
