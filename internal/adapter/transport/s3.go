package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3manager "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/semmidev/fileup/internal/config"
	"github.com/semmidev/fileup/internal/domain"
)

type S3Storage struct {
	client   *s3.Client
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

// NewS3 creates an S3Storage using AWS SDK v2. Objects are stored under the
// file_up_folder prefix so the public URL layout matches the other
// transports. Static credentials are used when configured, otherwise the
// default AWS credential chain.
func NewS3(ctx context.Context, cfg *appconfig.Target) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, &domain.ConfigError{Field: "s3.bucket", Reason: "required for s3"}
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, &domain.ConfigError{Field: "s3", Reason: "access_key and secret_key must be set together"}
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:   client,
		uploader: s3manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.FileUpFolder, "/"),
	}, nil
}

func (s *S3Storage) key(remoteName string) string {
	if s.prefix == "" {
		return remoteName
	}
	return path.Join(s.prefix, remoteName)
}

func (s *S3Storage) listPrefix() string {
	if s.prefix == "" {
		return ""
	}
	return s.prefix + "/"
}

// Upload uploads a local file to S3. A missing source becomes an empty
// object.
func (s *S3Storage) Upload(ctx context.Context, localPath string, remoteName string) error {
	var body io.Reader

	file, err := os.Open(localPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		body = bytes.NewReader(nil)
	case err != nil:
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: fmt.Errorf("failed to open file: %w", err)}
	default:
		defer file.Close()
		body = file
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(remoteName)),
		Body:   body,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(remoteName)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: fmt.Errorf("failed to upload to S3: %w", err)}
	}

	return nil
}

// List returns the object names directly under the prefix.
func (s *S3Storage) List(ctx context.Context) ([]string, error) {
	prefix := s.listPrefix()
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var files []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &domain.TransferError{Op: "list", Err: fmt.Errorf("failed to list S3 objects: %w", err)}
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" && !strings.Contains(name, "/") {
				files = append(files, name)
			}
		}
	}

	return files, nil
}

// Delete removes an object. S3 reports success for missing keys.
func (s *S3Storage) Delete(ctx context.Context, remoteName string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(remoteName)),
	})
	if err != nil {
		return &domain.TransferError{Op: "delete", Name: remoteName, Err: fmt.Errorf("failed to delete from S3: %w", err)}
	}

	return nil
}

func (s *S3Storage) Close() error {
	return nil
}
