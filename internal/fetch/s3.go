package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3API is the slice of the AWS S3 client the fetcher needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// downloadS3 fetches s3://bucket/key into dest. The API client is lazily
// built from the ambient AWS config unless one was injected.
func (f *Fetcher) downloadS3(ctx context.Context, u *url.URL, dest string) error {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return fmt.Errorf("s3 url needs bucket and key: %s", u)
	}

	api := f.s3
	if api == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("load aws config: %w", err)
		}
		api = s3.NewFromConfig(cfg)
		f.s3 = api
	}

	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	var total int64
	if out.ContentLength != nil {
		total = *out.ContentLength
	}

	tmp := dest + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	written, err := io.Copy(file, &progressReader{
		reader: out.Body,
		total:  total,
		name:   filepath.Base(dest),
		logger: f.logger,
	})
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	f.logger.Info("downloaded",
		zap.String("file", filepath.Base(dest)),
		zap.String("bucket", bucket),
		zap.Int64("bytes", written),
	)

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
