// Package fetch acquires the raw input files before a pipeline run: plain
// HTTP(S) downloads with Range-based resume, Google Drive share links that
// hide the file behind an HTML interstitial, s3:// objects and local paths.
// Downloads land in the data dir as <name>.tmp and are renamed once
// complete; files already fully downloaded are skipped.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Source names one input file and where it comes from.
type Source struct {
	Name string
	URL  string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetries sets how many times a failed download is retried.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retries = n
		}
	}
}

// WithS3 injects the S3 API used for s3:// sources.
func WithS3(api S3API) Option {
	return func(f *Fetcher) { f.s3 = api }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// Fetcher downloads input files into a data directory.
type Fetcher struct {
	dataDir string
	client  *http.Client
	limiter *rate.Limiter
	retries int
	s3      S3API
	logger  *zap.Logger
}

// New creates a fetcher writing into dataDir.
func New(dataDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		dataDir: dataDir,
		client:  &http.Client{Timeout: 30 * time.Minute},
		retries: 3,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch acquires every source and returns the local path of each, in
// source order. The first failed source aborts the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, sources []Source) ([]string, error) {
	if err := os.MkdirAll(f.dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", f.dataDir, err)
	}

	paths := make([]string, 0, len(sources))
	for _, src := range sources {
		path, err := f.fetchOne(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, src Source) (string, error) {
	if src.Name == "" {
		return "", fmt.Errorf("source name is required")
	}
	dest := filepath.Join(f.dataDir, filepath.Clean(src.Name))

	u, err := url.Parse(src.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	switch {
	case u.Scheme == "" || u.Scheme == "file":
		return dest, f.copyLocal(strings.TrimPrefix(src.URL, "file://"), dest)
	case u.Scheme == "s3":
		return dest, f.downloadS3(ctx, u, dest)
	case u.Scheme == "http" || u.Scheme == "https":
		if isGoogleDrive(u) {
			return dest, f.downloadGoogleDrive(ctx, src.URL, dest)
		}
		return dest, f.downloadHTTP(ctx, src.URL, dest)
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

// copyLocal places a local input file into the data dir. A source already
// at its destination is left alone.
func (f *Fetcher) copyLocal(src, dest string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dest, err)
	}
	if srcAbs == destAbs {
		return nil
	}

	in, err := os.Open(srcAbs)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	tmp := destAbs + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if err := os.Rename(tmp, destAbs); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// downloadHTTP fetches one file with resume (HTTP Range) and retries.
func (f *Fetcher) downloadHTTP(ctx context.Context, rawURL, dest string) error {
	if st, err := os.Stat(dest); err == nil && st.Size() > 0 {
		if size, err := f.remoteSize(ctx, rawURL); err == nil && size == st.Size() {
			f.logger.Info("already downloaded",
				zap.String("file", filepath.Base(dest)),
				zap.Int64("bytes", st.Size()),
			)
			return nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			f.logger.Warn("retrying download",
				zap.String("file", filepath.Base(dest)),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if lastErr = f.downloadOnce(ctx, rawURL, dest); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (f *Fetcher) downloadOnce(ctx context.Context, rawURL, dest string) error {
	tmp := dest + ".tmp"

	var offset int64
	if st, err := os.Stat(tmp); err == nil {
		offset = st.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
		f.logger.Info("resuming download",
			zap.String("file", filepath.Base(dest)),
			zap.Int64("offset", offset),
		)
	}

	resp, err := f.doRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if resp.StatusCode == http.StatusPartialContent {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		offset = 0
	}

	out, err := os.OpenFile(tmp, flags, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}

	written, err := io.Copy(out, &progressReader{
		reader:  resp.Body,
		total:   resp.ContentLength + offset,
		current: offset,
		name:    filepath.Base(dest),
		logger:  f.logger,
	})
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	f.logger.Info("downloaded",
		zap.String("file", filepath.Base(dest)),
		zap.Int64("bytes", offset+written),
	)

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// remoteSize asks the server for the file size via HEAD.
func (f *Fetcher) remoteSize(ctx context.Context, rawURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	resp, err := f.doRequest(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("head request: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.ContentLength < 0 {
		return 0, fmt.Errorf("head: HTTP %d", resp.StatusCode)
	}
	return resp.ContentLength, nil
}

// doRequest applies the rate limit then performs the request.
func (f *Fetcher) doRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	return resp, nil
}

// progressReader logs download progress every few seconds.
type progressReader struct {
	reader  io.Reader
	total   int64
	current int64
	name    string
	logger  *zap.Logger
	lastLog time.Time
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)

	if time.Since(pr.lastLog) > 5*time.Second {
		pr.lastLog = time.Now()
		if pr.total > 0 {
			pr.logger.Info("downloading",
				zap.String("file", pr.name),
				zap.Int64("bytes", pr.current),
				zap.Int64("total", pr.total),
				zap.Float64("pct", float64(pr.current)/float64(pr.total)*100),
			)
		}
	}

	if err != nil {
		return n, err
	}
	return n, nil
}
