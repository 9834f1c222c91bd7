package codestore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/contests/logger"
)

const mediaType = "application/zstd"

type Bucket interface {
	Upload(ctx context.Context, content []byte, key string, mediaType string) error
	Download(ctx context.Context, key string) ([]byte, error)
}

// CodeStore archives submitted source code as zstd compressed objects.
type CodeStore struct {
	bucket Bucket
	prefix string
}

func NewCodeStore(bucket Bucket) *CodeStore {
	return &CodeStore{bucket: bucket, prefix: "subm-code"}
}

func (s *CodeStore) key(contestUUID, submUUID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s.zst", s.prefix, contestUUID, submUUID)
}

// Archive uploads code and returns the object key it was stored under.
func (s *CodeStore) Archive(ctx context.Context, contestUUID, submUUID uuid.UUID, code string) (string, error) {
	compressed, err := compressWithZstd([]byte(code))
	if err != nil {
		return "", err
	}
	key := s.key(contestUUID, submUUID)
	logger.FromContext(ctx).Debug("archiving submission code",
		"key", key, "size", len(code), "compressed", len(compressed))
	if err := s.bucket.Upload(ctx, compressed, key, mediaType); err != nil {
		return "", err
	}
	return key, nil
}

func (s *CodeStore) Fetch(ctx context.Context, key string) (string, error) {
	compressed, err := s.bucket.Download(ctx, key)
	if err != nil {
		return "", err
	}
	code, err := decompressWithZstd(compressed)
	if err != nil {
		return "", err
	}
	return string(code), nil
}

func compressWithZstd(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func decompressWithZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Zstd decoder: %w", err)
	}
	defer decoder.Close()
	res, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return res, nil
}
