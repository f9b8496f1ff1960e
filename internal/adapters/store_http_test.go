package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msstore-packager/internal/types"
)

func writePackageFile(t *testing.T, dir string, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("payload-"+name), 0644))
	return path
}

func staticSubmission(data types.SubmissionData) func() types.SubmissionData {
	return func() types.SubmissionData { return data }
}

func TestHTTPStorePublishFlow(t *testing.T) {
	var mu sync.Mutex
	var uploads []string
	var committed bool
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1.0/my/applications/9NBLGGH4R315/submissions":
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Demo App submission", payload["description"])
			fmt.Fprint(w, `{"id":"sub-1"}`)
		case r.Method == http.MethodPut:
			uploads = append(uploads, r.URL.Path)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPost && r.URL.Path == "/v1.0/my/applications/9NBLGGH4R315/submissions/sub-1/commit":
			committed = true
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	files := []string{
		writePackageFile(t, dir, "a.msixupload"),
		writePackageFile(t, dir, "b.msixupload"),
	}

	client := NewHTTPStoreClient(server.URL, "secret", 2, 10, 3, 10)
	code, err := client.Publish(t.Context(), types.AppIdentity{ID: "9NBLGGH4R315"},
		staticSubmission(types.SubmissionData{Description: "Demo App submission"}), dir, files)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer secret", auth)
	assert.ElementsMatch(t, []string{
		"/v1.0/my/applications/9NBLGGH4R315/submissions/sub-1/packages/a.msixupload",
		"/v1.0/my/applications/9NBLGGH4R315/submissions/sub-1/packages/b.msixupload",
	}, uploads)
	assert.True(t, committed)
}

func TestHTTPStorePublishRetriesTransientUpload(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			if r.URL.Path == "/v1.0/my/applications/app/submissions" {
				fmt.Fprint(w, `{"id":"sub-1"}`)
			}
		case http.MethodPut:
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	files := []string{writePackageFile(t, dir, "a.msixupload")}

	client := NewHTTPStoreClient(server.URL, "secret", 1, 10, 3, 1)
	_, err := client.Publish(t.Context(), types.AppIdentity{ID: "app"},
		staticSubmission(types.SubmissionData{}), dir, files)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestHTTPStorePublishDoesNotRetryClientError(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			fmt.Fprint(w, `{"id":"sub-1"}`)
		case http.MethodPut:
			attempts++
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	files := []string{writePackageFile(t, dir, "a.msixupload")}

	client := NewHTTPStoreClient(server.URL, "secret", 1, 10, 3, 1)
	_, err := client.Publish(t.Context(), types.AppIdentity{ID: "app"},
		staticSubmission(types.SubmissionData{}), dir, files)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, attempts)
}

func TestHTTPStorePublishValidation(t *testing.T) {
	dir := t.TempDir()
	files := []string{writePackageFile(t, dir, "a.msixupload")}

	tests := []struct {
		name   string
		client HTTPStoreClient
		files  []string
	}{
		{name: "missing endpoint", client: NewHTTPStoreClient("", "secret", 0, 0, 0, 0), files: files},
		{name: "missing api key", client: NewHTTPStoreClient("http://store.local", "", 0, 0, 0, 0), files: files},
		{name: "no files", client: NewHTTPStoreClient("http://store.local", "secret", 0, 0, 0, 0), files: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.client.Publish(t.Context(), types.AppIdentity{ID: "app"},
				staticSubmission(types.SubmissionData{}), dir, tc.files)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}

func TestEnsureApplicationInitialized(t *testing.T) {
	client := NewHTTPStoreClient("http://store.local", "secret", 0, 0, 0, 0)

	t.Run("supplied id wins", func(t *testing.T) {
		supplied := sampleIdentity()
		identity, err := client.EnsureApplicationInitialized(t.Context(), &supplied, func(_ context.Context) (types.AppIdentity, error) {
			t.Fatal("recovery must not run when an id is supplied")
			return types.AppIdentity{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, supplied, identity)
	})

	t.Run("recovered id merges into supplied fields", func(t *testing.T) {
		supplied := sampleIdentity()
		supplied.ID = ""
		identity, err := client.EnsureApplicationInitialized(t.Context(), &supplied, func(_ context.Context) (types.AppIdentity, error) {
			return types.AppIdentity{ID: "9NBLGGH4R315"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "9NBLGGH4R315", identity.ID)
		assert.Equal(t, "Demo App", identity.DisplayName)
	})

	t.Run("recovery without id fails", func(t *testing.T) {
		_, err := client.EnsureApplicationInitialized(t.Context(), nil, func(_ context.Context) (types.AppIdentity, error) {
			return types.AppIdentity{}, nil
		})
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
		assert.Contains(t, err.Error(), "no application identity")
	})

	t.Run("nil recovery fails", func(t *testing.T) {
		_, err := client.EnsureApplicationInitialized(t.Context(), nil, nil)
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	})
}
