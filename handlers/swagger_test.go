package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSwaggerEndpoints(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g)

	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")

	req2 := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req2)
	require.Equal(t, 200, w2.Code)

	// the doc must be raw JSON, not a JSON-encoded string
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &doc))
	require.Contains(t, doc, "openapi")

	for _, path := range []string{
		"/api/docs/upload", "/api/docs/mydocs", "/api/docs/download/{id}", "/api/docs/{id}",
		"/api/auth/login", "/api/auth/refresh", "/api/auth/logout",
		"/api/users/me", "/api/users/update",
	} {
		require.Contains(t, doc["paths"], path)
	}
}
