package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/userkeeper-server/internal/logger"
	"github.com/dtroode/userkeeper-server/internal/model"
	"github.com/dtroode/userkeeper-server/internal/storage/codec"
)

const noSuchKey = "NoSuchKey"

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

var _ model.Snapshotter = (*Client)(nil)

// Client stores the user collection as a single JSON object.
type Client struct {
	api    minioAPI
	bucket string
	object string
	logger *logger.Logger
}

// NewClient creates a new MinIO snapshot client using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket, object string, logger *logger.Logger) (*Client, error) {
	return NewClientWithAPI(ctx, minioClientWrapper{c: client}, bucket, object, logger)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, object string, logger *logger.Logger) (*Client, error) {
	c := &Client{
		api:    api,
		bucket: bucket,
		object: object,
		logger: logger,
	}

	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

// ensureBucketExists creates the bucket if it doesn't exist
func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Load downloads the snapshot object. A missing or malformed object yields
// an empty collection.
func (c *Client) Load(ctx context.Context) ([]model.User, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, c.object, minio.GetObjectOptions{})
	if err != nil {
		return c.missingOr(err)
	}
	defer obj.Close()

	// GetObject is lazy: a missing key only surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return c.missingOr(err)
	}

	users, fallback := codec.DecodeOrEmpty(data)
	if fallback {
		c.logger.Warn("MinIO storage: snapshot object is malformed, starting empty",
			"bucket", c.bucket,
			"object", c.object)
	}
	return users, nil
}

// Save uploads the collection, replacing the previous snapshot object.
func (c *Client) Save(ctx context.Context, users []model.User) error {
	data, err := codec.Encode(users)
	if err != nil {
		return err
	}

	_, err = c.api.PutObject(ctx, c.bucket, c.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (c *Client) missingOr(err error) ([]model.User, error) {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		c.logger.Info("MinIO storage: snapshot object not found, starting empty",
			"bucket", c.bucket,
			"object", c.object)
		return []model.User{}, nil
	}
	return nil, fmt.Errorf("failed to get object: %w", err)
}
