package r2

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
)

// BucketService is the object-storage contract consumed by the record core.
// A completed call means the object is stored; no stronger durability
// guarantee is assumed.
type BucketService interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	PublicURL(key string) string
}

type bucketService struct {
	log       *logger.Logger
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	cdnDomain string
}

// New builds an R2-backed bucket client. R2 speaks the S3 API, so this is a
// standard aws-sdk-v2 client pointed at the account endpoint.
func New(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	bucket := strings.TrimSpace(os.Getenv("R2_BUCKET"))
	if bucket == "" {
		return nil, fmt.Errorf("missing env var R2_BUCKET")
	}
	endpoint := strings.TrimSpace(os.Getenv("R2_ENDPOINT"))
	if endpoint == "" {
		return nil, fmt.Errorf("missing env var R2_ENDPOINT")
	}
	accessKey := strings.TrimSpace(os.Getenv("R2_ACCESS_KEY_ID"))
	secretKey := strings.TrimSpace(os.Getenv("R2_SECRET_ACCESS_KEY"))
	cdnDomain := strings.TrimSpace(os.Getenv("R2_CDN_DOMAIN"))

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &bucketService{
		log:       serviceLog,
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

func (bs *bucketService) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	_, err := bs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bs.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return apierr.New(http.StatusInternalServerError, apierr.CodeStorage, fmt.Errorf("upload %q: %w", key, err))
	}
	return nil
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := bs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apierr.New(http.StatusInternalServerError, apierr.CodeStorage, fmt.Errorf("delete %q: %w", key, err))
	}
	return nil
}

func (bs *bucketService) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := bs.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bs.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", apierr.New(http.StatusInternalServerError, apierr.CodeStorage, fmt.Errorf("presign %q: %w", key, err))
	}
	return req.URL, nil
}

func (bs *bucketService) PublicURL(key string) string {
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	return fmt.Sprintf("%s/%s", bs.bucket, key)
}
