package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	listingImageFolder      = "car_images"
	listingImageContentType = "image/jpeg"
)

// ImageProcessor normalizes an uploaded picture into a JPEG.
type ImageProcessor interface {
	Process(data []byte) ([]byte, error)
}

type PhotoUsecase struct {
	store     domain.BlobStore
	processor ImageProcessor
	maxBytes  int64
	logger    *logger.Logger
	newID     IDGenerator
}

func NewPhotoUsecase(store domain.BlobStore, processor ImageProcessor, maxBytes int64, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{
		store:     store,
		processor: processor,
		maxBytes:  maxBytes,
		logger:    log.Named("PhotoUsecase"),
		newID:     newUUID,
	}
}

// UploadListingImage stores one listing picture under a fresh random name
// and returns its public URL. The URL is later attached to a listing by the
// client.
func (uc *PhotoUsecase) UploadListingImage(ctx context.Context, actor domain.Actor, data []byte) (string, error) {
	if actor.UserID == "" {
		return "", domain.ErrNoCurrentUser
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	if uc.maxBytes > 0 && int64(len(data)) > uc.maxBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidInput, uc.maxBytes)
	}

	processed, err := uc.processor.Process(data)
	if err != nil {
		uc.logger.Warn("Image processing failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	path := fmt.Sprintf("%s/%s.jpg", listingImageFolder, uc.newID())
	ref, err := uc.store.Upload(ctx, path, processed, listingImageContentType)
	if err != nil {
		uc.logger.Error("Image upload failed", zap.String("path", path), zap.Error(err))
		return "", err
	}

	url := uc.store.PublicURL(ref)
	uc.logger.Info("Listing image uploaded", zap.String("user_id", actor.UserID), zap.String("url", url), zap.Int("bytes", len(processed)))
	return url, nil
}
