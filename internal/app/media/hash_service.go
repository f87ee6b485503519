package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrFileRequired = errors.New("file is required")

type StreamHasher interface {
	SumReaderHex(r io.Reader) (string, int64, error)
}

type FileDigest struct {
	Filename string
	SHA256   string
	Size     int64
}

type HashService struct {
	hasher StreamHasher
}

func NewHashService(hasher StreamHasher) *HashService {
	return &HashService{hasher: hasher}
}

// Hash streams r through SHA-256. filename is reported back with any
// directory components removed.
func (s *HashService) Hash(ctx context.Context, filename string, r io.Reader) (FileDigest, error) {
	if r == nil {
		return FileDigest{}, ErrFileRequired
	}
	if err := ctx.Err(); err != nil {
		return FileDigest{}, err
	}
	sum, size, err := s.hasher.SumReaderHex(contextReader{ctx: ctx, r: r})
	if err != nil {
		return FileDigest{}, fmt.Errorf("hash file: %w", err)
	}
	return FileDigest{
		Filename: baseName(filename),
		SHA256:   sum,
		Size:     size,
	}, nil
}

func baseName(filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	return filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
