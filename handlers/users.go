package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helpinghands/go-services/internal/users"
	"github.com/helpinghands/go-services/pkg/logger"
	"github.com/helpinghands/go-services/pkg/middleware"
)

// UpdateProfileRequest carries the profile-completion submission. DateOfBirth
// uses YYYY-MM-DD.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

// UsersHandler holds dependencies
type UsersHandler struct {
	svc *users.Service
}

func NewUsersHandler(svc *users.Service) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// Register wires the user routes. The listing is public; profile updates and
// /me require a verified token.
func (h *UsersHandler) Register(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/api/users", h.List)
	r.POST("/api/users/update-profile", auth, h.UpdateProfile)
	r.GET("/api/v1/me", auth, h.Me)
}

// List returns minimal user projections (id, name, email).
func (h *UsersHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("user list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateProfile applies a profile-completion submission for the signed-in user.
func (h *UsersHandler) UpdateProfile(c *gin.Context) {
	email := middleware.ClaimString(c, "email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is missing the email claim"})
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date of birth"})
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), email, users.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Gender:      req.Gender,
	})
	if err != nil {
		if errors.Is(err, users.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required and gender must be valid"})
			return
		}
		logger.Errorf("profile update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully", "user": u})
}

// Me returns the local account for the token's email claim, falling back to
// the raw claims when no account exists yet.
func (h *UsersHandler) Me(c *gin.Context) {
	email := middleware.ClaimString(c, "email")
	if email != "" {
		u, err := h.svc.GetByEmail(c.Request.Context(), email)
		if err == nil && u != nil {
			c.JSON(http.StatusOK, gin.H{"user": u, "profileComplete": u.ProfileComplete()})
			return
		}
	}
	v, _ := c.Get("claims")
	c.JSON(http.StatusOK, gin.H{"claims": v})
}
