package s3

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/config"
)

// MediaStorage uploads user media (avatars, cover images) and returns the
// public URL persisted on the account record.
type MediaStorage interface {
	Upload(ctx context.Context, userID uuid.UUID, kind string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3MediaStorage implements MediaStorage against an S3-compatible bucket.
type S3MediaStorage struct {
	s3Client *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
}

func NewS3MediaStorage(cfg config.S3Config) (*S3MediaStorage, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3MediaStorage{
		s3Client: s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		baseURL:  cfg.BaseURL,
	}, nil
}

// Upload stores the object under <userID>/<kind>/<uuid><ext> and returns its
// public URL.
func (c *S3MediaStorage) Upload(ctx context.Context, userID uuid.UUID, kind string, data []byte, contentType string) (string, error) {
	ext := extensionFor(contentType)
	key := fmt.Sprintf("%s/%s/%s%s", userID.String(), kind, uuid.New().String(), ext)

	_, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", kind, err)
	}
	return fmt.Sprintf("%s/%s", c.baseURL, key), nil
}

func (c *S3MediaStorage) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return path.Ext(contentType)
	}
	return exts[0]
}

var _ MediaStorage = (*S3MediaStorage)(nil)
