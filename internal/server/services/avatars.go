package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	timeNow = time.Now
)

// AvatarUpload is a presigned slot for a profile picture. ObjectURL is the
// address to submit as profile_picture once the upload has finished.
type AvatarUpload struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ObjectURL string `json:"object_url"`
}

// AvatarService hands out presigned S3 PUT URLs for profile pictures.
type AvatarService struct {
	region   string
	user     string
	password string
	endpoint string
	bucket   string
	validity time.Duration
}

// NewAvatarService returns nil when no bucket or endpoint is configured;
// avatar uploads are then disabled.
func NewAvatarService(cfg *config.Config) *AvatarService {
	if strings.TrimSpace(cfg.S3Bucket) == "" || strings.TrimSpace(cfg.S3BaseEndpoint) == "" {
		return nil
	}
	return &AvatarService{
		region:   cfg.S3Region,
		user:     cfg.S3RootUser,
		password: cfg.S3RootPassword,
		endpoint: cfg.S3BaseEndpoint,
		bucket:   cfg.S3Bucket,
		validity: cfg.AvatarUploadURLValidity,
	}
}

func randomAvatarKey() string {
	d := timeNow()
	return fmt.Sprintf("avatars/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.user, s.password, "")))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// UploadURL presigns a PUT for a fresh object key.
func (s *AvatarService) UploadURL(ctx context.Context) (*AvatarUpload, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.bucket
	key := randomAvatarKey()

	validity := s.validity
	if validity <= 0 {
		validity = 15 * time.Minute
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return nil, err
	}

	objectURL, err := url.JoinPath(s.endpoint, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("object url: %w", err)
	}

	return &AvatarUpload{UploadURL: req.URL, ObjectKey: key, ObjectURL: objectURL}, nil
}
