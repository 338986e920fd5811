// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates downscaled JPEG thumbnails for uploaded images.
// Decoding supports JPEG, PNG, GIF and WebP; images no wider than the
// target are skipped to avoid upscaling.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// ThumbWidth is the default thumbnail width in pixels.
	ThumbWidth = 400

	// ThumbQuality is the JPEG quality of generated thumbnails.
	ThumbQuality = 80

	// MaxPixels caps decoded size to prevent decompression bombs.
	MaxPixels = 50_000_000
)

// ErrTooLarge is returned for images above MaxPixels.
var ErrTooLarge = errors.New("image exceeds pixel limit")

// thumbnailable lists the types Thumbnail accepts. GIF is excluded to
// preserve animation.
var thumbnailable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Thumbnailable reports whether images of contentType get a thumbnail.
func Thumbnailable(contentType string) bool {
	return thumbnailable[contentType]
}

// Thumbnail scales src down to maxWidth, preserving aspect ratio, and
// encodes the result as JPEG. It returns nil when the image is already no
// wider than maxWidth.
func Thumbnail(src io.ReadSeeker, maxWidth, quality int) ([]byte, error) {
	// Decode config first to check dimensions without a full decode.
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)
	}
	if cfg.Width <= maxWidth {
		return nil, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 {
		return nil, errors.New("decode image: zero width")
	}
	height := max(bounds.Dy()*maxWidth/bounds.Dx(), 1)

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
