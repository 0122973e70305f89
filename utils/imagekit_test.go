package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"go-shop/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// redirectTransport sends every request to target, keeping path and body.
type redirectTransport struct {
	target *url.URL
}

func (t redirectTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	r.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

type uploadRecord struct {
	path     string
	fileName string
	body     string
}

func newImageKitServer(t *testing.T, status int, reply map[string]any) (*httptest.Server, func() []uploadRecord) {
	t.Helper()
	var (
		mu      sync.Mutex
		uploads []uploadRecord
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := uploadRecord{path: r.URL.Path}
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			rec.fileName = r.FormValue("fileName")
			if f, _, err := r.FormFile("file"); err == nil {
				b, _ := io.ReadAll(f)
				rec.body = string(b)
				f.Close()
			} else {
				rec.body = r.FormValue("file")
			}
		}
		mu.Lock()
		uploads = append(uploads, rec)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []uploadRecord {
		mu.Lock()
		defer mu.Unlock()
		return append([]uploadRecord(nil), uploads...)
	}
}

func newTestImageKitStore(t *testing.T, srv *httptest.Server) *ImageKitStore {
	t.Helper()
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	s, err := NewImageKitStore(config.ImageConfig{
		ImageKitPublicKey:   "public_test",
		ImageKitPrivateKey:  "private_test",
		ImageKitURLEndpoint: "https://ik.imagekit.io/shop",
	}, &http.Client{Transport: redirectTransport{target: target}})
	require.NoError(t, err)
	return s
}

func TestImageKitStore_Save(t *testing.T) {
	t.Parallel()
	srv, uploads := newImageKitServer(t, http.StatusOK, map[string]any{
		"fileId":       "file_123",
		"name":         "front.png",
		"url":          "https://ik.imagekit.io/shop/front.png",
		"thumbnailUrl": "https://ik.imagekit.io/shop/tr:n-media_library_thumbnail/front.png",
	})
	s := newTestImageKitStore(t, srv)

	img, err := s.Save(context.Background(), "../Front.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "file_123", img.ID)
	require.Equal(t, "https://ik.imagekit.io/shop/front.png", img.URL)
	require.Contains(t, img.Thumbnail, "media_library_thumbnail")

	got := uploads()
	require.Len(t, got, 1)
	require.True(t, strings.HasSuffix(got[0].path, "/files/upload"), got[0].path)
	require.True(t, strings.HasSuffix(got[0].fileName, ".png"), got[0].fileName)
	require.NotContains(t, got[0].fileName, "..")
}

func TestImageKitStore_SaveFailures(t *testing.T) {
	t.Parallel()

	srv, _ := newImageKitServer(t, http.StatusInternalServerError, map[string]any{"message": "upload failed"})
	s := newTestImageKitStore(t, srv)
	_, err := s.Save(context.Background(), "a.png", strings.NewReader("x"))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Save(ctx, "a.png", strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenImageStore(t *testing.T) {
	t.Parallel()
	log := zaptest.NewLogger(t)

	s, err := OpenImageStore(config.ImageConfig{UploadDir: t.TempDir()}, log)
	require.NoError(t, err)
	require.IsType(t, &DiskImageStore{}, s)

	s, err = OpenImageStore(config.ImageConfig{
		ImageKitPublicKey:   "public_test",
		ImageKitPrivateKey:  "private_test",
		ImageKitURLEndpoint: "https://ik.imagekit.io/shop",
	}, log)
	require.NoError(t, err)
	require.IsType(t, &ImageKitStore{}, s)

	_, err = NewImageKitStore(config.ImageConfig{ImageKitPublicKey: "public_test"}, nil)
	require.Error(t, err)
}
