package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (auth.Identity, error) {
	if token != "good" {
		return auth.Identity{}, common.ErrInvalidToken
	}
	return auth.Identity{UserID: "u1", Email: "ann@example.com"}, nil
}

type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	saveErr error
	n       int
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (m *memStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.n++
	path := fmt.Sprintf("images/%d.png", m.n)
	m.files[path] = b
	return path, nil
}

func (m *memStore) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), "image/png", nil
}

func (m *memStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, path)
	delete(m.files, path)
	return nil
}

// whoami reports the caller seen by the GraphQL endpoint.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": ac.Authenticated, "userId": ac.UserID})
})

func newTestRouter(store *memStore, rateLimit int) http.Handler {
	return NewRouter(Deps{
		Logger:         logging.Discard(),
		Verifier:       stubVerifier{},
		GraphQL:        whoami,
		Images:         store,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "# metrics") }),
		CORSOrigin:     "*",
		RateLimit:      rateLimit,
	})
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, contentType string, data []byte, oldPath string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="pic"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if oldPath != "" {
		require.NoError(t, mw.WriteField("oldPath", oldPath))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/post-image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPreflightAndHeaders(t *testing.T) {
	h := newTestRouter(newMemStore(), 0)

	rec := do(h, httptest.NewRequest(http.MethodOptions, "/graphql", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	rec = do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))

	rec = do(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestGateFeedsGraphQL(t *testing.T) {
	h := newTestRouter(newMemStore(), 0)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "anonymous", want: `{"authenticated":false,"userId":""}`},
		{name: "bad token", header: "Bearer nope", want: `{"authenticated":false,"userId":""}`},
		{name: "good token", header: "Bearer good", want: `{"authenticated":true,"userId":"u1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := do(h, req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestUpload(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		store := newMemStore()
		rec := do(newTestRouter(store, 0), uploadRequest(t, "image/png", []byte("png"), ""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Not authenticated","status":401,"data":[]}`, rec.Body.String())
		assert.Empty(t, store.files)
	})

	t.Run("stores", func(t *testing.T) {
		store := newMemStore()

		req := uploadRequest(t, "image/png", []byte("png-bytes"), "")
		req.Header.Set("Authorization", "good")
		rec := do(newTestRouter(store, 0), req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got uploadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, uploadResponse{Message: "File stored.", FilePath: "images/1.png"}, got)
		assert.Equal(t, []byte("png-bytes"), store.files["images/1.png"])
	})

	t.Run("never deletes another file", func(t *testing.T) {
		store := newMemStore()
		store.files["images/someone-else.png"] = []byte("theirs")

		req := uploadRequest(t, "image/png", []byte("png-bytes"), "images/someone-else.png")
		req.Header.Set("Authorization", "good")
		rec := do(newTestRouter(store, 0), req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, store.deleted)
		assert.Equal(t, []byte("theirs"), store.files["images/someone-else.png"])
	})

	t.Run("unsupported type is dropped", func(t *testing.T) {
		store := newMemStore()
		req := uploadRequest(t, "application/pdf", []byte("%PDF"), "")
		req.Header.Set("Authorization", "good")
		rec := do(newTestRouter(store, 0), req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"No file provided!"}`, rec.Body.String())
		assert.Empty(t, store.files)
	})

	t.Run("no multipart body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/post-image", nil)
		req.Header.Set("Authorization", "good")
		rec := do(newTestRouter(newMemStore(), 0), req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"No file provided!"}`, rec.Body.String())
	})

	t.Run("store failure hides cause", func(t *testing.T) {
		store := newMemStore()
		store.saveErr = errors.New("disk on fire")
		req := uploadRequest(t, "image/jpeg", []byte("jpg"), "")
		req.Header.Set("Authorization", "good")
		rec := do(newTestRouter(store, 0), req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Internal error","status":500,"data":[]}`, rec.Body.String())
	})
}

func TestServeImage(t *testing.T) {
	store := newMemStore()
	store.files["images/a.png"] = []byte("pixels")
	h := newTestRouter(store, 0)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/images/a.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "pixels", rec.Body.String())

	rec = do(h, httptest.NewRequest(http.MethodGet, "/images/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Image not found","status":404,"data":[]}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(newMemStore(), 2)

	for i := 0; i < 2; i++ {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
