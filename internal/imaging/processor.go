// Package imaging normalizes uploaded listing pictures.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/nfnt/resize"
)

const (
	JPEGQuality = 80
	// DefaultMaxPixels bounds the decoded bitmap (about 160MB as RGBA).
	DefaultMaxPixels int64 = 40_000_000
)

// Processor decodes JPEG or PNG input, shrinks it to fit a square of
// maxDimension pixels (never enlarging) and re-encodes it as JPEG.
// Inputs whose header declares more than maxPixels pixels are rejected
// before any bitmap is allocated.
type Processor struct {
	maxDimension uint
	maxPixels    int64
}

func NewProcessor(maxDimension int, maxPixels int64) *Processor {
	if maxDimension < 0 {
		maxDimension = 0
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Processor{maxDimension: uint(maxDimension), maxPixels: maxPixels}
}

func (p *Processor) Process(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", domain.ErrInvalidInput)
	}
	if int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, limit is %d pixels",
			domain.ErrInvalidInput, cfg.Width, cfg.Height, p.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if p.maxDimension > 0 {
		b := img.Bounds()
		if uint(b.Dx()) > p.maxDimension || uint(b.Dy()) > p.maxDimension {
			img = resize.Thumbnail(p.maxDimension, p.maxDimension, img, resize.Lanczos3)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}
