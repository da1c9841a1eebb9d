package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"restow/internal/config"
)

// s3Store implements Store against any S3-compatible backend via minio-go.
type s3Store struct {
	client *minio.Client
	bucket string
}

// NewS3 connects to the configured S3-compatible endpoint.
func NewS3(cfg config.Store) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}
	return &s3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *s3Store) Head(ctx context.Context, key string) (ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return ObjectInfo{}, fmt.Errorf("head %s: %w", key, ErrKeyNotFound)
		}
		return ObjectInfo{}, fmt.Errorf("head %s: %w", key, err)
	}
	return ObjectInfo{Key: key, Size: info.Size, ContentType: info.ContentType}, nil
}

func (s *s3Store) Copy(ctx context.Context, src, dst, contentType string) error {
	dstOpts := minio.CopyDestOptions{
		Bucket:          s.bucket,
		Object:          dst,
		ReplaceMetadata: true,
		UserMetadata:    map[string]string{"Content-Type": contentType},
	}
	srcOpts := minio.CopySrcOptions{Bucket: s.bucket, Object: src}
	if _, err := s.client.CopyObject(ctx, dstOpts, srcOpts); err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("copy %s -> %s: %w", src, dst, ErrKeyNotFound)
		}
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *s3Store) Put(ctx context.Context, key, contentType string, reader io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *s3Store) List(ctx context.Context, prefix, token string, max int) (Page, error) {
	if max <= 0 {
		return Page{}, nil
	}

	// The minio listing is channel-based; cancel it once the page is full so
	// the client stops fetching further backend pages.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: token,
	})

	page := Page{Objects: make([]ObjectInfo, 0, max)}
	for entry := range entries {
		if entry.Err != nil {
			return Page{}, fmt.Errorf("list %q: %w", prefix, entry.Err)
		}
		page.Objects = append(page.Objects, ObjectInfo{Key: entry.Key, Size: entry.Size, ContentType: entry.ContentType})
		if len(page.Objects) == max {
			page.NextToken = entry.Key
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	return page, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
