package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"go.uber.org/zap"
)

const imageFormField = "image"

// multipartOverhead covers the multipart framing around the image itself.
const multipartOverhead = 1 << 20

type ImageHandler struct {
	photos   PhotoService
	maxBytes int64
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewImageHandler(photos PhotoService, maxBytes int64, m *metrics.MetricsManager, log *logger.Logger) *ImageHandler {
	return &ImageHandler{photos: photos, maxBytes: maxBytes, metrics: m, logger: log.Named("ImageHandler")}
}

type imageResponse struct {
	URL string `json:"url"`
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	file, _, err := r.FormFile(imageFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidInput, h.maxBytes))
			return
		}
		response.Error(w, fmt.Errorf("%w: multipart field %q is required", domain.ErrInvalidInput, imageFormField))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.logger.Warn("Failed to read uploaded image", zap.Error(err))
		response.Error(w, fmt.Errorf("%w: unreadable upload", domain.ErrInvalidInput))
		return
	}

	url, err := h.photos.UploadListingImage(r.Context(), actor, data)
	if err != nil {
		response.Error(w, err)
		return
	}
	h.metrics.ImagesUploaded.Inc()
	response.JSON(w, http.StatusCreated, imageResponse{URL: url})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
