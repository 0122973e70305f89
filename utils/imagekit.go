package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go-shop/config"
	"go-shop/models"

	"github.com/google/uuid"
	"github.com/imagekit-developer/imagekit-go"
	"github.com/imagekit-developer/imagekit-go/api/uploader"
	"go.uber.org/zap"
)

type imageUploader interface {
	Upload(ctx context.Context, file interface{}, param uploader.UploadParam) (*uploader.UploadResponse, error)
}

// ImageKitStore uploads images to ImageKit and returns the CDN location.
type ImageKitStore struct {
	up imageUploader
}

// NewImageKitStore builds an ImageKit client from cfg. A nil client uses the
// SDK default.
func NewImageKitStore(cfg config.ImageConfig, client *http.Client) (*ImageKitStore, error) {
	if !cfg.ImageKitEnabled() {
		return nil, errors.New("imagekit credentials are not configured")
	}
	ik := imagekit.NewFromParams(imagekit.NewParams{
		PublicKey:   cfg.ImageKitPublicKey,
		PrivateKey:  cfg.ImageKitPrivateKey,
		UrlEndpoint: cfg.ImageKitURLEndpoint,
	})
	if client != nil {
		ik.Uploader.Client = client
	}
	return &ImageKitStore{up: ik.Uploader}, nil
}

// Save uploads r under a fresh uuid name keeping a sanitized extension of filename.
func (s *ImageKitStore) Save(ctx context.Context, filename string, r io.Reader) (models.Image, error) {
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}
	id := uuid.NewString()
	resp, err := s.up.Upload(ctx, r, uploader.UploadParam{FileName: id + imageExt(filename)})
	if err != nil {
		return models.Image{}, fmt.Errorf("imagekit upload: %w", err)
	}
	if resp == nil || resp.Data.Url == "" {
		return models.Image{}, errors.New("imagekit upload: response has no url")
	}

	img := models.Image{ID: resp.Data.FileId, URL: resp.Data.Url, Thumbnail: resp.Data.ThumbnailUrl}
	if img.ID == "" {
		img.ID = id
	}
	if img.Thumbnail == "" {
		img.Thumbnail = img.URL
	}
	return img, nil
}

// OpenImageStore picks ImageKit when configured and the local disk store
// otherwise.
func OpenImageStore(cfg config.ImageConfig, log *zap.Logger) (ImageStore, error) {
	if cfg.ImageKitEnabled() {
		log.Info("storing product images on imagekit", zap.String("endpoint", cfg.ImageKitURLEndpoint))
		return NewImageKitStore(cfg, nil)
	}
	log.Warn("imagekit not configured; storing product images on local disk", zap.String("dir", cfg.UploadDir))
	return NewDiskImageStore(cfg.UploadDir, cfg.PublicBaseURL)
}
