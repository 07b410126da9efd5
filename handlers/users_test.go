package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/helpinghands/go-services/internal/models"
	"github.com/helpinghands/go-services/internal/users"
	"github.com/helpinghands/go-services/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersRouter(t *testing.T, email string) (*gin.Engine, *fakeUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeUserRepo()
	h := NewUsersHandler(users.NewService(repo))
	auth := middleware.AuthMiddleware(&fakeVerifier{claims: map[string]interface{}{"email": email, "sub": "oidc|x"}})
	r := gin.New()
	h.Register(r, auth)
	return r, repo
}

func TestUpdateProfile(t *testing.T) {
	r, repo := usersRouter(t, "vera@example.org")
	_, err := repo.Create(context.Background(), &models.User{Email: "vera@example.org", Gender: models.GenderUnspecified, DateOfBirth: models.DefaultDateOfBirth})
	require.NoError(t, err)

	body := `{"firstName":"Vera","lastName":"Okafor","dateOfBirth":"1992-04-17","gender":"female"}`
	req := httptest.NewRequest("POST", "/api/users/update-profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&got))
	assert.Equal(t, "Vera", got.User.FirstName)
	assert.Equal(t, "female", got.User.Gender)
	assert.True(t, got.User.ProfileComplete())
}

func TestUpdateProfileValidation(t *testing.T) {
	r, repo := usersRouter(t, "vera@example.org")
	_, _ = repo.Create(context.Background(), &models.User{Email: "vera@example.org"})

	cases := []string{
		`{"firstName":"","lastName":"Okafor","dateOfBirth":"1992-04-17","gender":"female"}`,
		`{"firstName":"Vera","lastName":"Okafor","dateOfBirth":"not-a-date","gender":"female"}`,
		`{"firstName":"Vera","lastName":"Okafor","dateOfBirth":"1992-04-17","gender":"dragon"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest("POST", "/api/users/update-profile", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	r, _ := usersRouter(t, "ghost@example.org")

	body := `{"firstName":"G","lastName":"Host","dateOfBirth":"1992-04-17","gender":"other"}`
	req := httptest.NewRequest("POST", "/api/users/update-profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsers(t *testing.T) {
	r, repo := usersRouter(t, "vera@example.org")
	_, _ = repo.Create(context.Background(), &models.User{Email: "vera@example.org", FirstName: "Vera", LastName: "Okafor"})

	req := httptest.NewRequest("GET", "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.UserSummary
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Vera Okafor", got[0].Name)
}

func TestMe(t *testing.T) {
	r, repo := usersRouter(t, "vera@example.org")
	_, _ = repo.Create(context.Background(), &models.User{Email: "vera@example.org", FirstName: "Vera"})

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&got))
	assert.NotNil(t, got["user"])
}

func TestMeUnknownUserReturnsClaims(t *testing.T) {
	r, _ := usersRouter(t, "ghost@example.org")

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&got))
	assert.NotNil(t, got["claims"])
}
