package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruiting-platform/internal/auth"
	apperrors "recruiting-platform/internal/common/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var input auth.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.errors.Respond(c, apperrors.NewProfileValidationFailedError("invalid request body"))
		return
	}

	profile, token, err := s.auth.Signup(c.Request.Context(), input)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"profile": profile,
		"token":   token,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errors.Respond(c, apperrors.NewAuthenticationFailedError("invalid request body"))
		return
	}

	session, token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"profileId": session.ProfileID,
		"role":      session.Role,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.auth.Logout(c.Request.Context(), extractToken(c)); err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleMe(c *gin.Context) {
	session := currentSession(c)
	profile, err := s.profiles.GetByID(c.Request.Context(), session.ProfileID)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
