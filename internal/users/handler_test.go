package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service, userID, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
		}
		if email != "" {
			c.Set("userEmail", email)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestMeRequiresIdentity(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryRepo()), "", "")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMeFallsBackToClaims(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryRepo()), "user_1", "a@example.com")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "user_1", body["userId"])
	require.Equal(t, "a@example.com", body["email"])
}

func TestMeUsesStoredProfile(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	require.NoError(t, svc.UpsertFromAuth(context.Background(), User{ID: "google:1", Email: "g@example.com", Name: "Grace"}))

	r := newTestRouter(svc, "google:1", "")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"name":"Grace"`)
}

func TestMemoryRepoKeepsCreatedAtOnUpsert(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, User{ID: "u1", Email: "a@example.com"}))
	first, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, User{ID: "u1", Email: "b@example.com"}))
	second, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, "b@example.com", second.Email)
}
