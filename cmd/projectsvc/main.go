package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helpinghands/go-services/handlers"
	"github.com/helpinghands/go-services/internal/database"
	"github.com/helpinghands/go-services/internal/projects"
	"github.com/helpinghands/go-services/internal/users"
	"github.com/helpinghands/go-services/pkg/logger"
)

// Standalone projects API for local development and frontend prototyping.
// Uses the memory-backed repository when no MongoDB is configured; project
// create/delete run without token verification here, so keep it off any
// public network.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	port := os.Getenv("PROJECT_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var repo projects.Repository
	var userRepo users.UserRepository
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v) — using memory-backed repo", err)
			repo = projects.NewMemoryRepository()
		} else {
			db := client.Database(os.Getenv("MONGODB_DATABASE"))
			repo = projects.NewMongoRepository(db.Collection("projects"))
			userRepo = users.NewMongoUserRepository(db.Collection("users"))
		}
	} else {
		repo = projects.NewMemoryRepository()
	}

	projectsSvc := projects.NewService(repo)
	var userSvc *users.Service
	if userRepo != nil {
		userSvc = users.NewService(userRepo)
	}

	// no-op auth: pass the dev identity through via a fixed claims map
	devAuth := func(c *gin.Context) {
		c.Set("claims", map[string]interface{}{"email": os.Getenv("DEV_USER_EMAIL")})
		c.Next()
	}

	if userSvc != nil {
		handlers.NewProjectsHandler(projectsSvc, userSvc).Register(r, devAuth)
		handlers.NewLeaderboardHandler(projectsSvc, userSvc).Register(r)
	} else {
		// without a user store only the public read endpoints make sense
		h := handlers.NewProjectsHandler(projectsSvc, users.NewService(nil))
		r.GET("/api/projects", h.List)
		r.PATCH("/api/projects", h.Join)
	}

	logger.Infof("project service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
