package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosti/buyerform/config"
)

// fakeS3 answers the handful of calls MinioScratch makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := r.URL.Query()["location"]; ok {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3(t *testing.T) (*fakeS3, *config.MinioConfig) {
	t.Helper()
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	return fake, &config.MinioConfig{
		Endpoint:  u.Host,
		AccessKey: "test",
		SecretKey: "testsecret",
		Bucket:    "scratch",
	}
}

func TestNewMinioScratch(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "test",
	}

	s, err := NewMinioScratch(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNewMinioScratchInvalidEndpoint(t *testing.T) {
	_, err := NewMinioScratch(&config.MinioConfig{Endpoint: "http://has-a-scheme:9000"})
	assert.Error(t, err)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "uploads/abc/leads.csv", ObjectName("abc", "leads.csv"))
	assert.Equal(t, "uploads/abc/leads.csv", ObjectName("abc", "../../leads.csv"))
}

func TestMinioScratchObjectURL(t *testing.T) {
	tests := []struct {
		name       string
		useSSL     bool
		endpoint   string
		bucket     string
		objectName string
		expected   string
	}{
		{
			name:       "http url",
			endpoint:   "localhost:9000",
			bucket:     "scratch",
			objectName: "uploads/id/leads.csv",
			expected:   "http://localhost:9000/scratch/uploads/id/leads.csv",
		},
		{
			name:       "https url",
			useSSL:     true,
			endpoint:   "minio.example.com",
			bucket:     "buyerform-uploads",
			objectName: "uploads/id/leads.xlsx",
			expected:   "https://minio.example.com/buyerform-uploads/uploads/id/leads.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &MinioScratch{
				bucket: tt.bucket,
				config: &config.MinioConfig{Endpoint: tt.endpoint, UseSSL: tt.useSSL},
			}
			assert.Equal(t, tt.expected, s.ObjectURL(tt.objectName))
		})
	}
}

func TestMinioScratchSave(t *testing.T) {
	fake, cfg := newFakeS3(t)

	s, err := NewMinioScratch(cfg)
	require.NoError(t, err)

	location, err := s.Save(context.Background(), "leads.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "http://"+cfg.Endpoint+"/scratch/uploads/"))
	assert.True(t, strings.HasSuffix(location, "/leads.csv"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.objects, 1)
	for key, body := range fake.objects {
		assert.True(t, strings.HasPrefix(key, "/scratch/uploads/"))
		assert.Contains(t, body, "a,b\n1,2\n")
		assert.Equal(t, "text/csv", fake.types[key])
	}
}

func TestMinioScratchEnsureBucketExisting(t *testing.T) {
	_, cfg := newFakeS3(t)

	s, err := NewMinioScratch(cfg)
	require.NoError(t, err)
	assert.NoError(t, s.EnsureBucket(context.Background()))
}

func TestUploadContentType(t *testing.T) {
	assert.Equal(t, "text/csv", uploadContentType("a.CSV"))
	assert.Equal(t, XLSXContentType, uploadContentType("a.xlsx"))
	assert.Equal(t, "application/octet-stream", uploadContentType("a.bin"))
}
