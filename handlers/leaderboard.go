package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/helpinghands/go-services/internal/leaderboard"
	"github.com/helpinghands/go-services/internal/models"
	"github.com/helpinghands/go-services/internal/projects"
	"github.com/helpinghands/go-services/internal/users"
	"github.com/helpinghands/go-services/pkg/logger"
)

// LeaderboardHandler recomputes the standings from the full project set on
// every request; nothing is cached or persisted.
type LeaderboardHandler struct {
	projectsSvc *projects.Service
	usersSvc    *users.Service
}

func NewLeaderboardHandler(p *projects.Service, u *users.Service) *LeaderboardHandler {
	return &LeaderboardHandler{projectsSvc: p, usersSvc: u}
}

func (h *LeaderboardHandler) Register(r *gin.Engine) {
	r.GET("/api/leaderboard", h.Get)
}

// Get returns per-user contribution standings derived from project rosters.
func (h *LeaderboardHandler) Get(c *gin.Context) {
	ps, err := h.projectsSvc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("leaderboard project fetch error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
		return
	}
	us, err := h.usersSvc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("leaderboard user fetch error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
		return
	}
	lookup := make(map[string]models.UserSummary, len(us))
	for _, u := range us {
		lookup[u.ID] = u
	}
	c.JSON(http.StatusOK, leaderboard.Compute(ps, lookup))
}
