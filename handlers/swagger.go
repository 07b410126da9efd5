package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>helpinghands — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "helpinghands", "version": "v0.1.0" },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Exchange provider credentials for local tokens",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"mode":{"type":"string"},"username":{"type":"string"},"password":{"type":"string"},"code":{"type":"string"},"redirect_uri":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens and bound user returned" }, "401": { "description": "authentication failed" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/projects": {
      "get": { "summary": "List help projects, newest first", "responses": { "200": { "description": "project list" } } },
      "post": { "summary": "Create a help project", "responses": { "201": { "description": "project created" }, "400": { "description": "validation failed" } } },
      "patch": { "summary": "Join a project roster", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"projectId":{"type":"string"},"userId":{"type":"string"}}}}}}, "responses": { "200": { "description": "joined (idempotent)" }, "404": { "description": "project not found" } } }
    },
    "/api/projects/{id}": {
      "delete": { "summary": "Delete a project", "responses": { "200": { "description": "deleted" }, "400": { "description": "malformed id" }, "404": { "description": "not found" } } }
    },
    "/api/users": {
      "get": { "summary": "List users (minimal projection)", "responses": { "200": { "description": "user list" } } }
    },
    "/api/users/update-profile": {
      "post": { "summary": "Complete the signed-in user's profile", "responses": { "200": { "description": "updated user" }, "400": { "description": "validation failed" }, "404": { "description": "user not found" } } }
    },
    "/api/leaderboard": {
      "get": { "summary": "Volunteer contribution standings", "responses": { "200": { "description": "leaderboard rows" } } }
    },
    "/api/uploads/image": {
      "post": { "summary": "Upload a project image", "responses": { "201": { "description": "stored object url" }, "400": { "description": "bad upload" } } }
    },
    "/api/uploads/images/{name}": {
      "get": { "summary": "Fetch a stored project image", "responses": { "200": { "description": "image bytes" }, "404": { "description": "not found" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Get the signed-in user", "responses": { "200": { "description": "user or claims" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
