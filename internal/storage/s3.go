package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Options configures an S3 snapshot store.
type S3Options struct {
	Bucket string
	Region string
	// Endpoint overrides the service endpoint (MinIO, LocalStack).
	Endpoint string
	// PathStyle addresses objects as endpoint/bucket/key.
	PathStyle bool
	// Retries is the number of extra attempts after a failed request.
	Retries int
}

// DefaultS3Options returns options for bucket in us-east-1 with 3 retries.
func DefaultS3Options(bucket string) S3Options {
	return S3Options{Bucket: bucket, Region: "us-east-1", Retries: 3}
}

// S3Storage stores objects in an S3 bucket.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	retries int
}

// NewS3Storage builds a client from the default AWS credential chain.
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})
	return NewS3StorageWithClient(client, opts), nil
}

// NewS3StorageWithClient wraps an existing client.
func NewS3StorageWithClient(client *s3.Client, opts S3Options) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  opts.Bucket,
		retries: max(opts.Retries, 0),
	}
}

// Put uploads data and returns the ETag S3 assigned to it.
func (s *S3Storage) Put(ctx context.Context, objectPath string, data []byte) (string, error) {
	etag, err := withRetry(ctx, s.retries, func(ctx context.Context) (string, error) {
		out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(objectPath),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
			ContentType:   aws.String(contentType(objectPath)),
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.ETag), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3://%s/%s: %v", ErrUploadFailed, s.bucket, objectPath, err)
	}
	return etag, nil
}

// Get downloads an object. A missing key yields ErrObjectNotFound.
func (s *S3Storage) Get(ctx context.Context, objectPath string) ([]byte, error) {
	data, err := withRetry(ctx, s.retries, func(ctx context.Context) ([]byte, error) {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		if err != nil {
			if isNotFound(err) {
				return nil, ErrObjectNotFound
			}
			return nil, err
		}
		defer out.Body.Close()
		return io.ReadAll(out.Body)
	})
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, ErrObjectNotFound):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: s3://%s/%s: %v", ErrDownloadFailed, s.bucket, objectPath, err)
	}
}

// Delete removes an object. Deleting a missing key succeeds.
func (s *S3Storage) Delete(ctx context.Context, objectPath string) error {
	_, err := withRetry(ctx, s.retries, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("%w: s3://%s/%s: %v", ErrDeleteFailed, s.bucket, objectPath, err)
	}
	return nil
}

// Exists reports whether an object is present.
func (s *S3Storage) Exists(ctx context.Context, objectPath string) (bool, error) {
	return withRetry(ctx, s.retries, func(ctx context.Context) (bool, error) {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		if err != nil {
			if isNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
}

// ListObjects returns the keys under prefix in the order S3 lists them,
// which is lexicographic.
func (s *S3Storage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// withRetry runs op up to retries+1 times, sleeping backoffDelay between
// attempts. ErrObjectNotFound and context errors end the loop at once.
func withRetry[T any](ctx context.Context, retries int, op func(context.Context) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var v T
		if v, err = op(ctx); err == nil {
			return v, nil
		}
		if errors.Is(err, ErrObjectNotFound) {
			return zero, err
		}

		if attempt == retries {
			break
		}
		timer := time.NewTimer(backoffDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, err
}

// backoffDelay is 100ms doubled per attempt.
func backoffDelay(attempt int) time.Duration {
	return (100 * time.Millisecond) << attempt
}

// isNotFound matches both GetObject's NoSuchKey and HeadObject's bare 404.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

func contentType(objectPath string) string {
	switch path.Ext(objectPath) {
	case ".sz":
		return "application/x-snappy"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}
