package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/fsx"
)

var fsRegistry = errx.NewRegistry("FSX")

var (
	CodeReadFailed   = fsRegistry.Register("READ_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to read file from storage")
	CodeWriteFailed  = fsRegistry.Register("WRITE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to write file to storage")
	CodeDeleteFailed = fsRegistry.Register("DELETE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to delete file from storage")
	CodeNotFound     = fsRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found in storage")
)

// S3FileSystem stores objects in a single S3 bucket. Keys are the file paths
// handed in by callers.
type S3FileSystem struct {
	client *s3.Client
	bucket string
}

var _ fsx.FileSystem = (*S3FileSystem)(nil)

// New builds a filesystem using the default AWS credential chain.
func New(ctx context.Context, bucket, region string) (*S3FileSystem, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fsRegistry.NewWithCause(CodeWriteFailed, err)
	}
	return &S3FileSystem{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// NewWithClient is used by tests and callers that configure the client
// themselves (custom endpoints, localstack).
func NewWithClient(client *s3.Client, bucket string) *S3FileSystem {
	return &S3FileSystem{client: client, bucket: bucket}
}

func (f *S3FileSystem) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	stream, err := f.ReadFileStream(ctx, filePath)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fsRegistry.NewWithCause(CodeReadFailed, err).WithDetail("path", filePath)
	}
	return data, nil
}

func (f *S3FileSystem) ReadFileStream(ctx context.Context, filePath string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fsRegistry.New(CodeNotFound).WithDetail("path", filePath)
		}
		return nil, fsRegistry.NewWithCause(CodeReadFailed, err).WithDetail("path", filePath)
	}
	return out.Body, nil
}

func (f *S3FileSystem) WriteFile(ctx context.Context, filePath string, data []byte) error {
	return f.WriteFileStream(ctx, filePath, bytes.NewReader(data))
}

func (f *S3FileSystem) WriteFileStream(ctx context.Context, filePath string, reader io.Reader) error {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(filePath),
		Body:   reader,
	})
	if err != nil {
		return fsRegistry.NewWithCause(CodeWriteFailed, err).WithDetail("path", filePath)
	}
	return nil
}

func (f *S3FileSystem) DeleteFile(ctx context.Context, filePath string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return fsRegistry.NewWithCause(CodeDeleteFailed, err).WithDetail("path", filePath)
	}
	return nil
}

func (f *S3FileSystem) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fsRegistry.NewWithCause(CodeReadFailed, err).WithDetail("path", filePath)
	}
	return true, nil
}

func (f *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}
