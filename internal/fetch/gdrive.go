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

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

func isGoogleDrive(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "drive.google.com" || host == "drive.usercontent.google.com"
}

// downloadGoogleDrive fetches a Drive share link. Large files come back as
// an HTML interstitial ("can't scan for viruses") holding a confirmation
// form; the form's action and hidden inputs yield the real download URL.
func (f *Fetcher) downloadGoogleDrive(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	resp, err := f.doRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("drive request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("drive: HTTP %d", resp.StatusCode)
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return f.saveBody(resp, dest)
	}

	confirmURL, err := driveConfirmURL(resp)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	f.logger.Debug("following drive confirmation", zap.String("url", confirmURL))

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, confirmURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	confirmed, err := f.doRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("drive confirm request: %w", err)
	}
	defer func() { _ = confirmed.Body.Close() }()

	if confirmed.StatusCode != http.StatusOK {
		return fmt.Errorf("drive confirm: HTTP %d", confirmed.StatusCode)
	}
	if strings.Contains(confirmed.Header.Get("Content-Type"), "text/html") {
		return fmt.Errorf("drive confirm: still HTML, file may require sign-in")
	}
	return f.saveBody(confirmed, dest)
}

// driveConfirmURL extracts the download form from the interstitial page.
func driveConfirmURL(resp *http.Response) (string, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse interstitial: %w", err)
	}

	form := doc.Find("form#download-form").First()
	action, ok := form.Attr("action")
	if !ok || action == "" {
		return "", fmt.Errorf("drive interstitial: no download form")
	}

	params := url.Values{}
	form.Find("input[type=hidden]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		value, _ := s.Attr("value")
		if name != "" {
			params.Set(name, value)
		}
	})

	u, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("parse form action: %w", err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// saveBody streams a response body to dest via a .tmp file.
func (f *Fetcher) saveBody(resp *http.Response, dest string) error {
	tmp := dest + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	written, err := io.Copy(out, &progressReader{
		reader: resp.Body,
		total:  resp.ContentLength,
		name:   filepath.Base(dest),
		logger: f.logger,
	})
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	f.logger.Info("downloaded",
		zap.String("file", filepath.Base(dest)),
		zap.Int64("bytes", written),
	)
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
