package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dentalrcm/app/repositories"
	"dentalrcm/app/repositories/mock"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, *mock.Storage, *test.Hook) {
	store := mock.NewStorage()
	log, hook := test.NewNullLogger()

	blogPosts := NewBlogPostController(store, log)
	contacts := NewContactSubmissionController(store, log)
	downloads := NewLeadMagnetDownloadController(store, log)

	router := mux.NewRouter()
	router.HandleFunc("/api/blog-posts", blogPosts.Index).Methods("GET")
	router.HandleFunc("/api/blog-posts", blogPosts.Create).Methods("POST")
	router.HandleFunc("/api/blog-posts/{slug}", blogPosts.Show).Methods("GET")
	router.HandleFunc("/api/blog-posts/{id}", blogPosts.Update).Methods("PUT")
	router.HandleFunc("/api/blog-posts/{id}", blogPosts.Delete).Methods("DELETE")
	router.HandleFunc("/api/contact-submissions", contacts.Index).Methods("GET")
	router.HandleFunc("/api/contact-submissions", contacts.Create).Methods("POST")
	router.HandleFunc("/api/lead-magnet-downloads", downloads.Index).Methods("GET")
	router.HandleFunc("/api/lead-magnet-downloads", downloads.Create).Methods("POST")

	return router, store, hook
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const postPayload = `{
	"title": "Test Post",
	"slug": "test-post",
	"excerpt": "Short",
	"content": "Long",
	"category": "Billing",
	"readTime": "3 min read",
	"published": true
}`

func TestBlogPostController(t *testing.T) {
	router, store, _ := setupRouter(t)

	t.Run("empty list is an array", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/blog-posts", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("create post", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/blog-posts", postPayload)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		res := decode(t, w)
		assert.EqualValues(t, 1, res["id"])
		assert.Equal(t, "test-post", res["slug"])
		assert.Nil(t, res["coverImage"])
		assert.Contains(t, res, "createdAt")
		assert.Contains(t, res, "updatedAt")
	})

	t.Run("duplicate slug", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/blog-posts", postPayload)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "a blog post with this slug already exists", decode(t, w)["error"])
	})

	t.Run("get by slug", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/blog-posts/test-post", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Test Post", decode(t, w)["title"])
	})

	t.Run("unknown slug", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/blog-posts/missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "blog post not found", decode(t, w)["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/blog-posts", `{"title":"Only a title"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		res := decode(t, w)
		assert.Equal(t, "invalid request body", res["error"])
		details, ok := res["details"].([]any)
		require.True(t, ok)
		fields := make([]string, 0, len(details))
		for _, d := range details {
			fields = append(fields, d.(map[string]any)["field"].(string))
		}
		assert.ElementsMatch(t, []string{"slug", "excerpt", "content", "category", "readTime"}, fields)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/blog-posts", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update post", func(t *testing.T) {
		payload := strings.Replace(postPayload, `"Test Post"`, `"Updated Title"`, 1)
		w := do(router, http.MethodPut, "/api/blog-posts/1", payload)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Updated Title", decode(t, w)["title"])
	})

	t.Run("update missing post", func(t *testing.T) {
		w := do(router, http.MethodPut, "/api/blog-posts/999999", postPayload)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update with bad id", func(t *testing.T) {
		w := do(router, http.MethodPut, "/api/blog-posts/abc", postPayload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid blog post id", decode(t, w)["error"])
	})

	t.Run("delete post", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/api/blog-posts/1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		w = do(router, http.MethodGet, "/api/blog-posts/test-post", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete missing post", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/api/blog-posts/1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("delete with bad id", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/api/blog-posts/0", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	store.Clear()
}

func TestContactSubmissionController(t *testing.T) {
	router, store, _ := setupRouter(t)

	t.Run("create", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/contact-submissions", `{
			"name": "Dana",
			"practiceName": "Bright Smiles",
			"email": "dana@example.com",
			"service": "billing",
			"extra": "ignored"
		}`)
		require.Equal(t, http.StatusCreated, w.Code)

		res := decode(t, w)
		assert.Equal(t, "Dana", res["name"])
		assert.Nil(t, res["phone"])
		assert.NotContains(t, res, "extra")
	})

	t.Run("missing name stores nothing", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/contact-submissions", `{
			"practiceName": "Bright Smiles",
			"email": "dana@example.com",
			"service": "billing"
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		subs, err := store.GetContactSubmissions(t.Context())
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("list", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/contact-submissions", "")
		require.Equal(t, http.StatusOK, w.Code)

		var res []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res, 1)
		assert.Equal(t, "billing", res[0]["service"])
	})
}

func TestLeadMagnetDownloadController(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := do(router, http.MethodGet, "/api/lead-magnet-downloads", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(router, http.MethodPost, "/api/lead-magnet-downloads", `{"email":"a@b.c","downloadType":"checklist"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "checklist", decode(t, w)["downloadType"])

	w = do(router, http.MethodPost, "/api/lead-magnet-downloads", `{"email":"a@b.c","downloadType":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/lead-magnet-downloads", "")
	var res []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res, 1)
}

func TestStorageFailureIsOpaque(t *testing.T) {
	router, store, hook := setupRouter(t)
	store.Err = assert.AnError

	paths := []struct{ method, path, body string }{
		{http.MethodGet, "/api/blog-posts", ""},
		{http.MethodGet, "/api/blog-posts/any", ""},
		{http.MethodPost, "/api/blog-posts", postPayload},
		{http.MethodPut, "/api/blog-posts/1", postPayload},
		{http.MethodDelete, "/api/blog-posts/1", ""},
		{http.MethodGet, "/api/contact-submissions", ""},
		{http.MethodPost, "/api/contact-submissions", `{"name":"a","practiceName":"b","email":"c","service":"d"}`},
		{http.MethodGet, "/api/lead-magnet-downloads", ""},
		{http.MethodPost, "/api/lead-magnet-downloads", `{"email":"a","downloadType":"b"}`},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			hook.Reset()
			w := do(router, p.method, p.path, p.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "internal server error", decode(t, w)["error"])
			assert.NotContains(t, w.Body.String(), assert.AnError.Error())

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, logrus.ErrorLevel, entry.Level)
			assert.Equal(t, assert.AnError, entry.Data[logrus.ErrorKey])
		})
	}
}

func TestResponderFallbackMessages(t *testing.T) {
	log, _ := test.NewNullLogger()
	rs := responder{log: log}
	req := httptest.NewRequest(http.MethodPost, "/api/contact-submissions", nil)

	w := httptest.NewRecorder()
	rs.fail(w, req, repositories.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", decode(t, w)["error"])

	w = httptest.NewRecorder()
	rs.fail(w, req, fmt.Errorf("%w: duplicate", repositories.ErrConflict))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "record already exists", decode(t, w)["error"])
}
