package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"stockmana/internal/config"
	"stockmana/internal/models"
)

// ImageUpload is a file received from a multipart form.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ImageStore interface {
	Upload(ctx context.Context, img ImageUpload) (models.ProductImage, error)
}

type uploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3ImageStore struct {
	uploader      uploadAPI
	bucket        string
	publicBaseURL string
	keyPrefix     string
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		uploader:      manager.NewUploader(cfg.Client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		keyPrefix:     cfg.KeyPrefix,
	}
}

func (s *S3ImageStore) Upload(ctx context.Context, img ImageUpload) (models.ProductImage, error) {
	key := path.Join(s.keyPrefix, uuid.NewString()+strings.ToLower(filepath.Ext(img.FileName)))

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   img.Body,
	}
	if img.ContentType != "" {
		input.ContentType = aws.String(img.ContentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return models.ProductImage{}, fmt.Errorf("upload %s: %w", key, err)
	}

	size := img.Size
	if size < 0 {
		size = 0
	}
	return models.ProductImage{
		FileName: img.FileName,
		FilePath: s.publicBaseURL + "/" + key,
		FileType: img.ContentType,
		FileSize: humanize.Bytes(uint64(size)),
	}, nil
}
