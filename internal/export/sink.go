package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
)

// Sink stores one exported file and returns where it ended up.
type Sink interface {
	Write(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// DirSink writes files into a local directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Write(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.Dir, err)
	}
	target := filepath.Join(s.Dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}

// objectUploader is the subset of storage.Client the sink uses.
type objectUploader interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	Bucket() string
}

// ObjectSink uploads files to an object storage bucket under Prefix. With a
// positive LinkTTL the returned location is a presigned download URL.
type ObjectSink struct {
	Client  objectUploader
	Prefix  string
	LinkTTL time.Duration
}

func (s ObjectSink) Write(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(s.Prefix, name)
	info, err := s.Client.UploadFile(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", err
	}
	if s.LinkTTL > 0 {
		link, err := s.Client.GeneratePresignedURL(ctx, info.Key, s.LinkTTL)
		if err != nil {
			return "", err
		}
		return link, nil
	}
	return fmt.Sprintf("s3://%s/%s", s.Client.Bucket(), info.Key), nil
}
