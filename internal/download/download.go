// Package download fetches installer artifacts over HTTP into a private temp directory.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/wsl-setup/internal/messages"
)

// DefaultUserAgent is sent with every request; some package hosts reject Go's default agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:71.0) Gecko/20100101 Firefox/71.0"

// DefaultMaxBytes caps the size of a downloaded artifact.
const DefaultMaxBytes = int64(2 << 30)

const (
	fallbackFileName = "package.appx"
	retryCount       = 1
	retryBackoff     = 500 * time.Millisecond

	defaultHeaderTimeout = 2 * time.Minute
)

var defaultClient = newClient(defaultHeaderTimeout)

// newClient bounds connecting and waiting for response headers but not the body,
// so a large package on a slow link is never cut off. Ctrl+C cancels the body read.
func newClient(headerTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: transport}
}

// Fetcher downloads one artifact per Fetch call.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
	// Dir is the parent of the per-download temp directory; empty means os.TempDir.
	Dir    string
	Logger *log.Logger

	sleep func(time.Duration)
}

// Fetch downloads url and returns the path of the saved file.
// When wantSHA256 is non-empty the file's digest must match it.
func (f Fetcher) Fetch(ctx context.Context, url string, wantSHA256 string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.Dir != "" {
		if err := os.MkdirAll(f.Dir, 0o755); err != nil {
			return "", fmt.Errorf(messages.DownloadCreateDirFmt, err)
		}
	}
	dir, err := os.MkdirTemp(f.Dir, "wslsetup-")
	if err != nil {
		return "", fmt.Errorf(messages.DownloadCreateDirFmt, err)
	}
	dest, err := f.fetchInto(ctx, dir, url)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}
	if wantSHA256 != "" {
		if err := verifyChecksum(dest, wantSHA256); err != nil {
			_ = os.RemoveAll(dir)
			return "", err
		}
	}
	return dest, nil
}

func (f Fetcher) fetchInto(ctx context.Context, dir string, url string) (string, error) {
	for attempt := 0; attempt <= retryCount; attempt++ {
		dest, retry, err := f.attempt(ctx, dir, url)
		if err == nil {
			return dest, nil
		}
		if !retry || attempt == retryCount || ctx.Err() != nil {
			return "", err
		}
		f.logger().Warn("download failed, retrying", "url", url, "err", err)
		f.sleeper()(retryBackoff)
	}
	return "", fmt.Errorf(messages.DownloadFailedFmt, url, errors.New("retry budget exhausted"))
}

// attempt performs one GET. retry reports whether the failure looks transient.
func (f Fetcher) attempt(ctx context.Context, dir string, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf(messages.DownloadCreateRequestFmt, err)
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.client().Do(req)
	if err != nil {
		if isTimeoutError(err) {
			return "", true, fmt.Errorf(messages.DownloadTimeoutFmt, url)
		}
		return "", true, fmt.Errorf(messages.DownloadFailedFmt, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf(messages.DownloadUnexpectedStatusFmt, url, resp.Status)
	}

	name := fileName(resp)
	tmp, err := os.CreateTemp(dir, name+".part-*")
	if err != nil {
		return "", false, fmt.Errorf(messages.DownloadCreateTempFileFmt, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	maxBytes := f.maxBytes()
	n, copyErr := io.Copy(tmp, io.LimitReader(resp.Body, maxBytes+1))
	closeErr := tmp.Close()
	if copyErr != nil {
		return "", true, fmt.Errorf(messages.DownloadFailedFmt, url, copyErr)
	}
	if closeErr != nil {
		return "", false, fmt.Errorf(messages.DownloadCloseTempFileFmt, closeErr)
	}
	if n > maxBytes {
		return "", false, fmt.Errorf(messages.DownloadTooLargeFmt, url, n, maxBytes)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", false, fmt.Errorf(messages.DownloadMoveFileFmt, err)
	}
	committed = true
	f.logger().Info("downloaded package", "url", url, "path", dest, "bytes", n)
	return dest, false, nil
}

// fileName prefers the Content-Disposition filename, then the last segment of the final URL.
func fileName(resp *http.Response) string {
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := sanitize(params["filename"]); name != "" {
				return name
			}
		}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		if name := sanitize(path.Base(resp.Request.URL.Path)); name != "" {
			return name
		}
	}
	return fallbackFileName
}

// pathSeparator is a variable so it may equal "/" without a duplicate-case error.
var pathSeparator = string(filepath.Separator)

func sanitize(name string) string {
	name = strings.NewReplacer(`"`, "", "'", "").Replace(strings.TrimSpace(name))
	name = filepath.Base(filepath.FromSlash(name))
	switch name {
	case "", ".", "..", "/", pathSeparator:
		return ""
	}
	return name
}

func verifyChecksum(file string, want string) error {
	fh, err := os.Open(file)
	if err != nil {
		return fmt.Errorf(messages.DownloadOpenFileFmt, file, err)
	}
	defer func() {
		_ = fh.Close()
	}()
	hasher := sha256.New()
	if _, err := io.Copy(hasher, fh); err != nil {
		return fmt.Errorf(messages.DownloadHashFileFmt, file, err)
	}
	got := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(got, strings.TrimSpace(want)) {
		return fmt.Errorf(messages.DownloadChecksumMismatchFmt, filepath.Base(file), want, got)
	}
	return nil
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (f Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return defaultClient
}

func (f Fetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return DefaultUserAgent
}

func (f Fetcher) maxBytes() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return DefaultMaxBytes
}

func (f Fetcher) sleeper() func(time.Duration) {
	if f.sleep != nil {
		return f.sleep
	}
	return time.Sleep
}

func (f Fetcher) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}
