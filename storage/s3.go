package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

const minMultipartSize = 12 << 20

// S3 stores blobs in any S3-compatible bucket (AWS, R2, MinIO). A custom
// endpoint in the config switches between them
type S3 struct {
	c       *s3.Client
	presign *s3.PresignClient
	bucket  *string
}

func NewS3() (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("storage.s3.access_key_id"),
			viper.GetString("storage.s3.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("storage.s3.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = viper.GetString("storage.s3.region")

		if endpoint := viper.GetString("storage.s3.endpoint"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}

		o.UsePathStyle = viper.GetBool("storage.s3.force_path_style")
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3{
		c:       client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

func (s *S3) Put(ctx context.Context, ownerID, filename string, data []byte, mimeType string) (*PutResult, error) {
	key, err := objectKey(ownerID, filename)
	if err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket:        s.bucket,
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}

	if mimeType != "" {
		input.ContentType = aws.String(mimeType)
	}

	if int64(len(data)) > minMultipartSize {
		u := manager.NewUploader(s.c, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = u.Upload(ctx, input)
	} else {
		_, err = s.c.PutObject(ctx, input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upload blob to s3, %w", err)
	}

	return &PutResult{Path: key, Provider: ProviderS3}, nil
}

func (s *S3) Get(ctx context.Context, path string) ([]byte, error) {
	out, err := s.c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob from s3, %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (s *S3) Delete(ctx context.Context, path string) error {
	_, err := s.c.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob from s3, %w", err)
	}

	return nil
}

func (s *S3) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign blob URL, %w", err)
	}

	return req.URL, nil
}

func (s *S3) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.c.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return false, nil
		}

		return false, fmt.Errorf("failed to check if blob exists, %w", err)
	}

	return true, nil
}

func (s *S3) Provider() string {
	return ProviderS3
}
