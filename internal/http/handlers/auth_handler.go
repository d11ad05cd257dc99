// Authentication and session HTTP handlers.
//
// This file exposes:
//   - POST /auth/login   (check credentials, start an authenticated session)
//   - POST /auth/logout  (destroy the session)
//   - GET  /session      (who is logged in and which period is selected)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinica/susceptibles/internal/http/middleware"
)

// LoginRequest is the JSON payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64" example:"admin"`
	Password string `json:"password" binding:"required,max=256" example:"s3cret"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	User        string `json:"user" example:"admin"`
	ActiveYear  string `json:"active_year,omitempty" example:"2024"`
	ActiveMonth string `json:"active_month,omitempty" example:"Enero (2)"`
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Checks the administrator credentials and starts a fresh session (the session id is rotated).
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.SessionResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     429   {object}  handlers.ErrorResponse  "Too many attempts from this address"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password required")
		return
	}
	user, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	s, okS := sess(c)
	if !okS {
		return
	}
	s.SetUser(user)

	lg := middleware.LoggerFrom(c)
	lg.Info().Str("user", user).Msg("login")
	ok(c, http.StatusOK, SessionResponse{User: user})
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Tags        Auth
// @Success     204
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	s, okS := sess(c)
	if !okS {
		return
	}
	s.Destroy()
	noContent(c)
}

// GetSession godoc
// @ID          getSession
// @Summary     Current session
// @Description Returns the logged-in user and the active (year, month-variant) selection.
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  handlers.SessionResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Login required"
// @Router      /session [get]
func (h *Handlers) GetSession(c *gin.Context) {
	s, okS := sess(c)
	if !okS {
		return
	}
	y, m := s.ActivePeriod()
	ok(c, http.StatusOK, SessionResponse{User: s.User(), ActiveYear: y, ActiveMonth: m})
}
