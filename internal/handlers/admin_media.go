// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"biocms/internal/imaging"
	"biocms/internal/response"
	"biocms/internal/service"
)

const (
	// maxUploadSize is the maximum allowed image size (10 MB).
	maxUploadSize = 10 << 20

	thumbSuffix = "_thumb.jpg"
)

// ImageStore is the object storage behind uploads.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	KeyFromURL(rawURL string) (string, bool)
}

// imageExtensions lists the accepted MIME types and their file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload stores a multipart image (form field "file") and returns its
// public URL, plus a thumbnail URL when the image is wider than 400 px.
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	if a.images == nil {
		response.Error(w, http.StatusServiceUnavailable, "image storage is not configured", response.Fields{"code": "storage_unavailable"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Error(w, http.StatusRequestEntityTooLarge, "image too large (max 10 MB)", response.Fields{"code": "too_large"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.FromError(w, r, &service.MissingFieldError{Field: "file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.FromError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	// Detect the type from content, never from the filename.
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		response.FromError(w, r, &service.ValidationError{Field: "file", Message: fmt.Sprintf("type %q is not an accepted image", contentType)})
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()
	base := fmt.Sprintf("uploads/%d/%02d/%s", now.Year(), now.Month(), uuid.New().String())
	key := base + ext

	if err := a.images.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		response.FromError(w, r, err)
		return
	}

	fields := response.Fields{
		"url":          a.images.FileURL(key),
		"key":          key,
		"content_type": contentType,
		"size":         len(data),
		"filename":     header.Filename,
	}

	if imaging.Thumbnailable(contentType) {
		thumb, err := imaging.Thumbnail(bytes.NewReader(data), imaging.ThumbWidth, imaging.ThumbQuality)
		switch {
		case err != nil:
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		case thumb != nil:
			tk := base + thumbSuffix
			if err := a.images.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				fields["thumb_url"] = a.images.FileURL(tk)
			}
		}
	}

	slog.Info("image uploaded", "key", key, "size", len(data), "type", contentType)
	response.Created(w, fields)
}

type deleteUploadRequest struct {
	URL string `json:"url"`
}

// DeleteUpload removes an uploaded image and its thumbnail by public URL.
// Content items that still reference the URL are not touched.
func (a *Admin) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if a.images == nil {
		response.Error(w, http.StatusServiceUnavailable, "image storage is not configured", response.Fields{"code": "storage_unavailable"})
		return
	}

	var req deleteUploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		response.FromError(w, r, &service.MissingFieldError{Field: "url"})
		return
	}
	key, ok := a.images.KeyFromURL(req.URL)
	if !ok || !strings.HasPrefix(key, "uploads/") {
		response.FromError(w, r, &service.ValidationError{Field: "url", Message: "is not an uploaded image"})
		return
	}

	ctx := r.Context()
	if err := a.images.Delete(ctx, key); err != nil {
		response.FromError(w, r, err)
		return
	}
	if tk := thumbKey(key); tk != "" {
		// Best-effort; most images have no thumbnail.
		if err := a.images.Delete(ctx, tk); err != nil {
			slog.Warn("thumbnail delete failed", "error", err, "key", tk)
		}
	}
	response.Success(w, response.Fields{"deleted": key})
}

// thumbKey returns the thumbnail key derived from an original's key, or ""
// when key is itself a thumbnail.
func thumbKey(key string) string {
	if strings.HasSuffix(key, thumbSuffix) {
		return ""
	}
	if i := strings.LastIndexByte(key, '.'); i > strings.LastIndexByte(key, '/') {
		key = key[:i]
	}
	return key + thumbSuffix
}
