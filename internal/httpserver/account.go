package httpserver

import (
	"net/http"

	"driphorizon/internal/domain"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handlers) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.NewValidationError("username", "password"))
		return
	}
	u, err := h.deps.Users.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful! Please log in.", "user": u})
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.NewValidationError("username", "password"))
		return
	}
	identity, err := h.deps.Users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.deps.Sessions.Set(currentSession(c).ID, identityKey, identity)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully!", "identity": identity})
}

// logout drops the identity only; a draft in progress stays with the session.
func (h *handlers) logout(c *gin.Context) {
	h.deps.Sessions.Clear(currentSession(c).ID, identityKey)
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out."})
}
