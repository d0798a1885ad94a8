// Package upload copies a run's artifact directory to S3.
package upload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
)

type Uploader interface {
	UploadDir(ctx context.Context, dir string) (int, error)
}

type S3Uploader struct {
	api    s3manageriface.UploaderAPI
	bucket string
	prefix string
}

// New returns an S3 uploader, or Nop when no bucket is configured.
func New(cfg config.UploadConfig) (Uploader, error) {
	if cfg.Bucket == "" {
		return Nop{}, nil
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &S3Uploader{api: s3manager.NewUploader(sess), bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// UploadDir uploads every regular file under dir to
// s3://bucket/prefix/<base of dir>/<relative path> and returns the count.
func (u *S3Uploader) UploadDir(ctx context.Context, dir string) (int, error) {
	root := filepath.Base(filepath.Clean(dir))
	count := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := path.Join(u.prefix, root, filepath.ToSlash(rel))
		if err := u.uploadFile(ctx, p, key); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("upload %s: %w", dir, err)
	}
	return count, nil
}

func (u *S3Uploader) uploadFile(ctx context.Context, p, key string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = u.api.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}

type Nop struct{}

func (Nop) UploadDir(context.Context, string) (int, error) { return 0, nil }
