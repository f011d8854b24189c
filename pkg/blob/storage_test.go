package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageUpload(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storage := NewStorage(srv.URL, "service-key", "resumes")

	url, err := storage.Upload(context.Background(), "user-1/abc-resume.pdf", []byte("pdf bytes"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "/object/resumes/user-1/abc-resume.pdf", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "application/pdf", gotContentType)
	assert.Equal(t, []byte("pdf bytes"), gotBody)
	assert.Equal(t, srv.URL+"/object/public/resumes/user-1/abc-resume.pdf", url)
}

func TestStorageUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	storage := NewStorage(srv.URL, "service-key", "resumes")

	_, err := storage.Upload(context.Background(), "x/y.txt", []byte("data"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
