package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-shop/models"

	"github.com/google/uuid"
)

// ImageStore persists uploaded product images and returns their public location.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (models.Image, error)
}

// DiskImageStore writes images under a local directory served at /uploads/.
type DiskImageStore struct {
	dir     string
	baseURL string
}

// NewDiskImageStore creates dir if needed.
func NewDiskImageStore(dir, publicBaseURL string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskImageStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Save stores r under a fresh uuid name keeping a sanitized extension of filename.
func (s *DiskImageStore) Save(ctx context.Context, filename string, r io.Reader) (models.Image, error) {
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}
	id := uuid.NewString()
	name := id + imageExt(filename)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return models.Image{}, fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return models.Image{}, fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return models.Image{}, fmt.Errorf("close image file: %w", err)
	}

	url := s.baseURL + "/uploads/" + name
	return models.Image{ID: id, URL: url, Thumbnail: url}, nil
}

func imageExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
