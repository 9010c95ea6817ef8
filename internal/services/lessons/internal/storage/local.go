package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gamma-omg/lexi-explore/internal/pkg/serr"
	"github.com/google/uuid"
)

const (
	BucketVideos = "lesson-videos"
	BucketPDFs   = "lesson-pdfs"
)

var (
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrInvalidName   = errors.New("invalid object name")
)

// LocalStorage keeps uploaded objects on disk, one directory per bucket.
type LocalStorage struct {
	serveRoot *url.URL
	root      string
	buckets   []string
}

type LocalStorageConfig struct {
	ServeRoot *url.URL
	Root      string
	Buckets   []string
}

// NewLocalStorage creates the bucket directories under cfg.Root.
func NewLocalStorage(cfg LocalStorageConfig) (*LocalStorage, error) {
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = []string{BucketVideos, BucketPDFs}
	}

	for _, b := range buckets {
		if err := os.MkdirAll(filepath.Join(cfg.Root, b), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", b, err)
		}
	}

	return &LocalStorage{
		serveRoot: cfg.ServeRoot,
		root:      cfg.Root,
		buckets:   buckets,
	}, nil
}

// Upload stores the object as <uuid><ext>, keeping the lowercased extension
// of filename, and returns its public URL.
func (s *LocalStorage) Upload(bucket, filename string, r io.Reader) (*url.URL, error) {
	if !slices.Contains(s.buckets, bucket) {
		se := serr.NewServiceError(ErrUnknownBucket, http.StatusNotFound, "bucket not found")
		se.Env["bucket"] = bucket
		return nil, se
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.root, bucket, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)

		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, serr.NewServiceError(err, http.StatusRequestEntityTooLarge, "file size exceeded")
		}
		return nil, fmt.Errorf("save object file: %w", err)
	}

	return s.serveRoot.JoinPath(bucket, name), nil
}

// Open returns a stored object. Names must be plain file names inside a known bucket.
func (s *LocalStorage) Open(bucket, name string) (*os.File, error) {
	if !slices.Contains(s.buckets, bucket) {
		return nil, serr.NewServiceError(ErrUnknownBucket, http.StatusNotFound, "object not found")
	}

	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return nil, serr.NewServiceError(ErrInvalidName, http.StatusNotFound, "object not found")
	}

	f, err := os.Open(filepath.Join(s.root, bucket, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, serr.NewServiceError(err, http.StatusNotFound, "object not found")
		}
		return nil, fmt.Errorf("open object: %w", err)
	}

	return f, nil
}
