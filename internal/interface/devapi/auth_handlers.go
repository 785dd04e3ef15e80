package devapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"affiliate-dashboard/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		abort(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, err := s.store.FindUserByEmail(c.Request.Context(), email)
	if err != nil || !user.IsActive() || !s.hasher.Compare(user.Password, req.Password) {
		abort(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.respondIdentity(c, http.StatusOK, user)
}

func (s *Server) handleRegisterPublic(c *gin.Context) {
	reg, ok := s.bindRegistration(c, true)
	if !ok {
		return
	}
	if reg.Role.NeedsSecretCode() && !s.validCode(reg.Role, reg.SecretCode) {
		abort(c, http.StatusForbidden, "Invalid secret code")
		return
	}
	user, err := s.createUser(c, reg)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	s.respondIdentity(c, http.StatusCreated, user)
}

// handleRegister 管理員建立帳號，不需邀請碼。
func (s *Server) handleRegister(c *gin.Context) {
	reg, ok := s.bindRegistration(c, false)
	if !ok {
		return
	}
	user, err := s.createUser(c, reg)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info().Str("user_id", user.ID).Str("by", currentUser(c).ID).Msg("user created by admin")
	c.JSON(http.StatusCreated, gin.H{"user": toUserDTO(user)})
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": toUserDTO(currentUser(c))})
}

func (s *Server) bindRegistration(c *gin.Context, requireCode bool) (auth.Registration, bool) {
	var reg auth.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return auth.Registration{}, false
	}
	reg.Role = auth.Role(strings.ToLower(strings.TrimSpace(string(reg.Role))))
	reg = reg.Normalize()
	validate := reg.Validate
	if !requireCode {
		validate = reg.ValidateProfile
	}
	if err := validate(); err != nil {
		s.fail(c, err)
		return auth.Registration{}, false
	}
	return reg, true
}

func (s *Server) validCode(role auth.Role, code string) bool {
	want := s.codes[role]
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1
}

func (s *Server) createUser(c *gin.Context, reg auth.Registration) (auth.User, error) {
	hashed, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return auth.User{}, err
	}
	return s.store.CreateUser(c.Request.Context(), auth.User{
		Email:    reg.Email,
		Name:     reg.Name,
		Role:     reg.Role,
		Status:   auth.StatusActive,
		Password: hashed,
	})
}

func (s *Server) respondIdentity(c *gin.Context, status int, user auth.User) {
	token, _, err := s.tokens.Issue("", user)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, gin.H{"token": token, "user": toUserDTO(user)})
}
