package qastore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/askbook/internal/domain/qa"
)

// ObjectStorage keeps a JSON snapshot of every pair in an S3-compatible bucket.
type ObjectStorage struct {
	client *minio.Client
	bucket string
	key    string
	format Format
	logger *slog.Logger
}

// ObjectOptions configures NewObjectStorage.
type ObjectOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Key       string
}

// NewObjectStorage constructs the storage adapter.
func NewObjectStorage(opts ObjectOptions, logger *slog.Logger) (*ObjectStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := strings.HasPrefix(strings.ToLower(strings.TrimSpace(opts.Endpoint)), "https")
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object client: %w", err)
	}
	return &ObjectStorage{
		client: client,
		bucket: opts.Bucket,
		key:    opts.Key,
		format: FormatFromPath(opts.Key),
		logger: logger.With("component", "qastore.object"),
	}, nil
}

// LoadAll implements qa.Storage. A missing bucket or object is an empty store.
func (s *ObjectStorage) LoadAll(ctx context.Context) ([]qa.Pair, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		if isMissingObject(err) {
			return []qa.Pair{}, nil
		}
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isMissingObject(err) {
			s.logger.Debug("snapshot object not found, starting empty", "bucket", s.bucket, "key", s.key)
			return []qa.Pair{}, nil
		}
		return nil, err
	}
	return decodeSnapshot(s.format, data)
}

// PersistAll implements qa.Storage by overwriting the snapshot object.
func (s *ObjectStorage) PersistAll(ctx context.Context, pairs []qa.Pair) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	data, err := encodeSnapshot(s.format, pairs)
	if err != nil {
		return err
	}
	contentType := "application/json"
	if s.format == FormatYAML {
		contentType = "application/yaml"
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	})
	return err
}

// Close implements qa.Storage.
func (s *ObjectStorage) Close() error { return nil }

func (s *ObjectStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func isMissingObject(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	default:
		return false
	}
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ qa.Storage = (*ObjectStorage)(nil)
