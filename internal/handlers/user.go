package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/service"
)

// UserHandler is the handler for the profile, security and data pages.
type UserHandler struct{}

// NewUserHandler is the constructor function for initializing a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Signup handles POST /v1/profile/signup
func (h *UserHandler) Signup(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request service.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	profile, err := ctl.Signup(c.Request.Context(), request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// Login handles POST /v1/profile/login
func (h *UserHandler) Login(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	profile, err := ctl.Login(c.Request.Context(), request.Username, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Logout handles POST /v1/profile/logout
func (h *UserHandler) Logout(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	if err := ctl.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile handles GET /v1/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"profile":         ctl.Profile(ctx),
		"isAuthenticated": ctl.State(ctx).IsAuthenticated,
	})
}

// UpdateAccount handles PUT /v1/profile/account
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	profile, err := ctl.UpdateAccount(c.Request.Context(), request.Username, request.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// DeleteAccount handles DELETE /v1/profile
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request struct {
		Confirmation string `json:"confirmation"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := ctl.DeleteAccount(c.Request.Context(), request.Confirmation); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// ChangePassword handles POST /v1/security/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request service.PasswordChange
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if !ctl.ChangePassword(ctx, request) {
		msg := "Invalid password change"
		if fb := ctl.State(ctx).Feedback; fb != nil {
			msg = fb.Message
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// ToggleTwoFactor handles POST /v1/security/2fa/toggle
func (h *UserHandler) ToggleTwoFactor(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	enabled, err := ctl.Toggle2FA(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"twoFactorEnabled": enabled})
}

// ClearData handles DELETE /v1/data
func (h *UserHandler) ClearData(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	ctx := c.Request.Context()
	if err := ctl.ClearData(ctx); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ctl.State(ctx)})
}
