package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	MaxSize       int64
}

// S3Store writes images to an S3 bucket. A non-empty Endpoint points the
// client at an S3-compatible server such as MinIO.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	maxSize       int64
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBaseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		maxSize:       cfg.MaxSize,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, up Upload) (string, error) {
	limit := s.maxSize
	if limit <= 0 {
		limit = 5 << 20
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrNotImage, limit)
	}

	format, err := sniffImage(data)
	if err != nil {
		return "", err
	}

	key := storageKey(format)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + format),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

func storageKey(format string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("profiles/%d/%02d/%s.%s", d.Year(), d.Month(), uuid.NewString(), extensionFor(format))
}
