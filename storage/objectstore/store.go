// Package objectstore is a storage.Store keeping one object per key in an
// S3-compatible bucket (MinIO, AWS S3), for labs that share participant
// state across machines.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/viant/participant/storage"
)

const contentType = "text/plain; charset=utf-8"

// Store keeps keys as objects of one bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ storage.Store = (*Store)(nil)

// Open connects and creates the bucket when missing. An endpoint that
// cannot be reached is reported as storage.ErrUnavailable.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := &minio.Options{
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	}
	if cfg.AccessKey != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("objectstore: %w", err)
	}
	if err := ensureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		return nil, classify(fmt.Errorf("ensure bucket %s: %w", cfg.Bucket, err))
	}
	return New(client, cfg.Bucket, cfg.Prefix), nil
}

// New wraps an existing client.
func New(client *minio.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrInvalidKey
	}
	object, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return "", false, classify(fmt.Errorf("get %s: %w", key, err))
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		if notFound(err) {
			return "", false, nil
		}
		return "", false, classify(fmt.Errorf("read %s: %w", key, err))
	}
	return string(data), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(key), strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return writeErr(fmt.Errorf("put %s: %w", key, err))
	}
	return nil
}

// Remove deletes the object; S3 treats a missing object as deleted.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return writeErr(fmt.Errorf("remove %s: %w", key, err))
	}
	return nil
}

func (s *Store) Contains(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, storage.ErrInvalidKey
	}
	if _, err := s.client.StatObject(ctx, s.bucket, s.objectName(key), minio.StatObjectOptions{}); err != nil {
		if notFound(err) {
			return false, nil
		}
		return false, classify(fmt.Errorf("stat %s: %w", key, err))
	}
	return true, nil
}

func (s *Store) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
}

func notFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// classify marks transport failures as storage.ErrUnavailable.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return err
}

func writeErr(err error) error {
	if err = classify(err); errors.Is(err, storage.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", storage.ErrWrite, err)
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
