package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func usersRouter(sub string, svc *Service) *gin.Engine {
	g := gin.New()
	rg := g.Group("/api", func(c *gin.Context) {
		if sub != "" {
			c.Set("claims", map[string]interface{}{"sub": sub, "name": "Alice", "email": "alice@example.com"})
		}
		c.Next()
	})
	RegisterUserRoutes(rg, svc)
	return g
}

func TestMeEndpoint_LazilyCreatesAccount(t *testing.T) {
	svc := NewService(&fakeUserRepo{})
	g := usersRouter("user-a", svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "user-a", got["user"]["sub"])
	require.Equal(t, "alice@example.com", got["user"]["email"])
}

func TestMeEndpoint_NoClaims(t *testing.T) {
	g := usersRouter("", NewService(&fakeUserRepo{}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateEndpoint(t *testing.T) {
	svc := NewService(&fakeUserRepo{})
	g := usersRouter("user-a", svc)

	// account must exist first
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	g.ServeHTTP(httptest.NewRecorder(), req)

	body := `{"name":"Renamed","email":"renamed@example.com"}`
	req2 := httptest.NewRequest(http.MethodPut, "/api/users/update", strings.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)

	var got map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &got))
	require.Equal(t, "Renamed", got["user"]["name"])
	require.Equal(t, "renamed@example.com", got["user"]["email"])
}

func TestUpdateEndpoint_UnknownUser(t *testing.T) {
	g := usersRouter("ghost", NewService(&fakeUserRepo{}))

	req := httptest.NewRequest(http.MethodPut, "/api/users/update", strings.NewReader(`{"name":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "User not found")
}
