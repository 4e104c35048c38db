package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T) Fetcher {
	t.Helper()
	return Fetcher{Dir: t.TempDir(), sleep: func(time.Duration) {}}
}

func TestFetch_UsesContentDispositionName(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Disposition", `attachment; filename="Ubuntu_1804.2019.522.0_x64.appx"`)
		_, _ = w.Write([]byte("appx-bytes"))
	}))
	defer srv.Close()

	f := newFetcher(t)
	path, err := f.Fetch(context.Background(), srv.URL+"/wsl-ubuntu-1804", "")
	require.NoError(t, err)
	require.Equal(t, "Ubuntu_1804.2019.522.0_x64.appx", filepath.Base(path))
	require.Equal(t, DefaultUserAgent, gotAgent)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "appx-bytes", string(data))
	require.True(t, strings.HasPrefix(path, f.Dir))
}

func TestFetch_FallsBackToFinalURLSegment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/files/CanonicalGroupLimited.Ubuntu18.04onWindows.appx", http.StatusFound)
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("payload"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	path, err := newFetcher(t).Fetch(context.Background(), srv.URL+"/short", "")
	require.NoError(t, err)
	require.Equal(t, "CanonicalGroupLimited.Ubuntu18.04onWindows.appx", filepath.Base(path))
}

func TestFetch_RetriesServerErrorsOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := newFetcher(t).Fetch(context.Background(), srv.URL+"/pkg.appx", "")
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetch_NotFoundIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newFetcher(t)
	_, err := f.Fetch(context.Background(), srv.URL+"/pkg.appx", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))

	entries, err := os.ReadDir(f.Dir)
	require.NoError(t, err)
	require.Empty(t, entries, "failed downloads must not leave temp directories behind")
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	f := newFetcher(t)
	f.MaxBytes = 4
	_, err := f.Fetch(context.Background(), srv.URL+"/pkg.appx", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "too large")
}

func TestFetch_Checksum(t *testing.T) {
	body := []byte("appx")
	sum := sha256.Sum256(body)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	_, err := newFetcher(t).Fetch(context.Background(), srv.URL+"/pkg.appx", strings.ToUpper(hex.EncodeToString(sum[:])))
	require.NoError(t, err)

	_, err = newFetcher(t).Fetch(context.Background(), srv.URL+"/pkg.appx", strings.Repeat("0", 64))
	require.Error(t, err)
	require.Contains(t, err.Error(), "checksum mismatch")
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newFetcher(t).Fetch(ctx, srv.URL+"/pkg.appx", "")
	require.Error(t, err)
}

func TestDefaultClientDoesNotBoundTheBody(t *testing.T) {
	require.Zero(t, defaultClient.Timeout)
	transport, ok := defaultClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.Equal(t, defaultHeaderTimeout, transport.ResponseHeaderTimeout)
}

func TestFetch_SlowBodyOutlivesHeaderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 8; i++ {
			_, _ = w.Write([]byte("chunk"))
			flusher.Flush()
			time.Sleep(50 * time.Millisecond)
		}
	}))
	defer srv.Close()

	f := newFetcher(t)
	f.Client = newClient(100 * time.Millisecond)
	path, err := f.Fetch(context.Background(), srv.URL+"/pkg.appx", "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("chunk", 8), string(data))
}

func TestFetch_StalledHeadersTimeOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	f := newFetcher(t)
	f.Client = newClient(50 * time.Millisecond)
	_, err := f.Fetch(context.Background(), srv.URL+"/pkg.appx", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "timed out")
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		`"quoted.appx"`:      "quoted.appx",
		`'single.appx'`:      "single.appx",
		"../../etc/passwd":   "passwd",
		"":                   "",
		"/":                  "",
		"  spaced.appx  ":    "spaced.appx",
		"dir/nested/pkg.zip": "pkg.zip",
	}
	for in, want := range tests {
		require.Equal(t, want, sanitize(in), "sanitize(%q)", in)
	}
}
