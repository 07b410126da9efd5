package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/helpinghands/go-services/internal/projects"
	"github.com/helpinghands/go-services/internal/users"
	"github.com/helpinghands/go-services/pkg/logger"
	"github.com/helpinghands/go-services/pkg/metrics"
	"github.com/helpinghands/go-services/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateProjectRequest is the JSON schema for new listings. Dates use
// YYYY-MM-DD, times HH:MM (24h).
type CreateProjectRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Instructions string  `json:"instructions"`
	StartDate    string  `json:"startDate"`
	StartTime    string  `json:"startTime"`
	EndDate      string  `json:"endDate"`
	EndTime      string  `json:"endTime"`
	Hours        float64 `json:"hours"`
	ContactPhone string  `json:"contactPhone"`
	Urgency      string  `json:"urgency"`
	ImageURL     string  `json:"imageUrl"`
}

// JoinProjectRequest adds a volunteer to a listing's roster.
type JoinProjectRequest struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

// ProjectsHandler holds dependencies
type ProjectsHandler struct {
	svc      *projects.Service
	usersSvc *users.Service
}

func NewProjectsHandler(svc *projects.Service, usersSvc *users.Service) *ProjectsHandler {
	return &ProjectsHandler{svc: svc, usersSvc: usersSvc}
}

// Register wires the project routes. List and join are public; create and
// delete require a verified token.
func (h *ProjectsHandler) Register(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/api/projects", h.List)
	r.POST("/api/projects", auth, h.Create)
	r.PATCH("/api/projects", h.Join)
	r.DELETE("/api/projects/:id", auth, h.Delete)
}

// List returns all listings, newest first.
func (h *ProjectsHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("project list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Create validates the submission and stores a new pending listing owned by
// the signed-in user.
func (h *ProjectsHandler) Create(c *gin.Context) {
	email := middleware.ClaimString(c, "email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is missing the email claim"})
		return
	}
	owner, err := h.usersSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if owner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), owner, projects.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		StartDate:    req.StartDate,
		StartTime:    req.StartTime,
		EndDate:      req.EndDate,
		EndTime:      req.EndTime,
		Hours:        req.Hours,
		ContactPhone: req.ContactPhone,
		Urgency:      req.Urgency,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		if projects.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Errorf("project create error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	metrics.ProjectsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "project created successfully", "project": p})
}

// Join adds a volunteer to the roster. Joining twice is a successful no-op.
func (h *ProjectsHandler) Join(c *gin.Context) {
	var req JoinProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Join(c.Request.Context(), req.ProjectID, req.UserID)
	if err != nil {
		switch {
		case projects.IsValidation(err):
			metrics.ProjectJoinsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, projects.ErrNotFound):
			metrics.ProjectJoinsTotal.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		default:
			logger.Errorf("project join error: %v", err)
			metrics.ProjectJoinsTotal.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join project"})
		}
		return
	}
	metrics.ProjectJoinsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "joined project successfully", "project": p})
}

// Delete permanently removes a listing. A second delete of the same id is 404.
func (h *ProjectsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID format"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		logger.Errorf("project delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted successfully"})
}
