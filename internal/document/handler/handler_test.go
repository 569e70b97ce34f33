package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/internal/document/repository"
	"github.com/docvault/docvault/internal/document/service"
	"github.com/docvault/docvault/internal/storage"
)

// claimsFor injects verified claims the way the auth middleware does.
func claimsFor(sub string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sub != "" {
			c.Set("claims", map[string]interface{}{"sub": sub})
		}
		c.Next()
	}
}

func newTestRouter(t *testing.T, sub string) (*gin.Engine, *service.Service) {
	t.Helper()
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := service.New(repository.NewMemoryRepo(), blobs)
	g := gin.New()
	api := g.Group("/api", claimsFor(sub))
	RegisterDocumentRoutes(api, svc)
	return g, svc
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, g *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, ctype := multipartBody(t, "file", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/docs/upload", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestUploadEndpoint_Success(t *testing.T) {
	g, _ := newTestRouter(t, "user-a")

	w := doUpload(t, g, "invoice.pdf", "pdf-bytes")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message  string `json:"message"`
		Document struct {
			ID           string `json:"id"`
			OwnerID      string `json:"ownerId"`
			OriginalName string `json:"originalName"`
			StoredName   string `json:"storedName"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "File uploaded successfully", resp.Message)
	require.Equal(t, "user-a", resp.Document.OwnerID)
	require.Equal(t, "invoice.pdf", resp.Document.OriginalName)
	require.NotEmpty(t, resp.Document.ID)
	require.NotEqual(t, resp.Document.OriginalName, resp.Document.StoredName)
}

func TestUploadEndpoint_NoFile(t *testing.T) {
	g, _ := newTestRouter(t, "user-a")

	req := httptest.NewRequest(http.MethodPost, "/api/docs/upload", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No file uploaded")
}

func TestUploadEndpoint_RejectsDisallowedType(t *testing.T) {
	g, _ := newTestRouter(t, "user-a")

	w := doUpload(t, g, "malware.exe", "MZ")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// nothing shows up in the listing afterwards
	req := httptest.NewRequest(http.MethodGet, "/api/docs/mydocs", nil)
	lw := httptest.NewRecorder()
	g.ServeHTTP(lw, req)
	require.Equal(t, http.StatusOK, lw.Code)
	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &docs))
	require.Empty(t, docs)
}

func TestMyDocsEndpoint_NewestFirst(t *testing.T) {
	g, _ := newTestRouter(t, "user-a")
	require.Equal(t, http.StatusCreated, doUpload(t, g, "first.pdf", "1").Code)
	require.Equal(t, http.StatusCreated, doUpload(t, g, "second.png", "2").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/docs/mydocs", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var docs []struct {
		OriginalName string `json:"originalName"`
		CreatedAt    string `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 2)
}

func TestDownloadEndpoint_OwnershipAndHeaders(t *testing.T) {
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := service.New(repository.NewMemoryRepo(), blobs)

	// two routers over the same service: user A owns the document, user B does not
	asA := gin.New()
	RegisterDocumentRoutes(asA.Group("/api", claimsFor("user-a")), svc)
	asB := gin.New()
	RegisterDocumentRoutes(asB.Group("/api", claimsFor("user-b")), svc)

	w := doUpload(t, asA, "invoice.pdf", "pdf-bytes")
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Document struct {
			ID string `json:"id"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Document.ID

	// non-owner gets 403, not 404
	req := httptest.NewRequest(http.MethodGet, "/api/docs/download/"+id, nil)
	bw := httptest.NewRecorder()
	asB.ServeHTTP(bw, req)
	require.Equal(t, http.StatusForbidden, bw.Code)

	// owner gets the bytes under the original name
	req = httptest.NewRequest(http.MethodGet, "/api/docs/download/"+id, nil)
	aw := httptest.NewRecorder()
	asA.ServeHTTP(aw, req)
	require.Equal(t, http.StatusOK, aw.Code)
	require.Equal(t, "pdf-bytes", aw.Body.String())
	require.Contains(t, aw.Header().Get("Content-Disposition"), `attachment`)
	require.Contains(t, aw.Header().Get("Content-Disposition"), `"invoice.pdf"`)
}

func TestDownloadEndpoint_UnknownID(t *testing.T) {
	g, _ := newTestRouter(t, "user-a")
	req := httptest.NewRequest(http.MethodGet, "/api/docs/download/nope", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Document not found")
}

func TestDeleteEndpoint_Lifecycle(t *testing.T) {
	g, _ := newTestRouter(t, "user-a")
	w := doUpload(t, g, "old.doc", "x")
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Document struct {
			ID string `json:"id"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Document.ID

	req := httptest.NewRequest(http.MethodDelete, "/api/docs/"+id, nil)
	dw := httptest.NewRecorder()
	g.ServeHTTP(dw, req)
	require.Equal(t, http.StatusOK, dw.Code)
	require.Contains(t, dw.Body.String(), "Document deleted successfully")

	// deleting again is a 404
	req = httptest.NewRequest(http.MethodDelete, "/api/docs/"+id, nil)
	dw2 := httptest.NewRecorder()
	g.ServeHTTP(dw2, req)
	require.Equal(t, http.StatusNotFound, dw2.Code)
}

func TestEndpoints_RequireIdentity(t *testing.T) {
	g, _ := newTestRouter(t, "") // no claims injected

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPost, "/api/docs/upload"},
		{http.MethodGet, "/api/docs/mydocs"},
		{http.MethodGet, "/api/docs/download/x"},
		{http.MethodDelete, "/api/docs/x"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		g.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}
