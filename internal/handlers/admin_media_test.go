// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biocms/internal/service"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "uploads/2026/10/abc.png", want: "uploads/2026/10/abc_thumb.jpg"},
		{key: "uploads/2026/10/abc.jpg", want: "uploads/2026/10/abc_thumb.jpg"},
		{key: "uploads/2026/10/abc", want: "uploads/2026/10/abc_thumb.jpg"},
		{key: "uploads/v1.2/abc", want: "uploads/v1.2/abc_thumb.jpg"},
		{key: "uploads/2026/10/abc_thumb.jpg", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, thumbKey(tt.key))
		})
	}
}

// uploadRequest builds a multipart POST to the upload endpoint.
func uploadRequest(t *testing.T, field, filename string, data []byte, token string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "editor@biocms.test")

	t.Run("small image has no thumbnail", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, uploadRequest(t, "file", "logo.png", encodePNG(t, 120, 80), token))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		body := decode(t, rr)
		key, _ := body["key"].(string)
		assert.True(t, strings.HasPrefix(key, "uploads/"), key)
		assert.True(t, strings.HasSuffix(key, ".png"), key)
		assert.Equal(t, imageBase+key, body["url"])
		assert.Equal(t, "image/png", body["content_type"])
		assert.Equal(t, "logo.png", body["filename"])
		assert.NotContains(t, body, "thumb_url")
		assert.True(t, env.images.has(key))
	})

	t.Run("wide image gets a thumbnail", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, uploadRequest(t, "file", "hero.png", encodePNG(t, 1000, 500), token))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		body := decode(t, rr)
		key := body["key"].(string)
		tk := thumbKey(key)
		assert.Equal(t, imageBase+tk, body["thumb_url"])
		assert.True(t, env.images.has(tk))
	})

	t.Run("content type comes from the bytes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, uploadRequest(t, "file", "evil.png", []byte("<html><script>alert(1)</script></html>"), token))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "invalid_field", body["code"])
		assert.Equal(t, "file", body["field"])
	})

	t.Run("missing file field", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, uploadRequest(t, "image", "logo.png", encodePNG(t, 10, 10), token))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "missing_field", decode(t, rr)["code"])
	})

	t.Run("storage failure", func(t *testing.T) {
		env.images.err = errors.New("bucket unreachable")
		defer func() { env.images.err = nil }()

		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, uploadRequest(t, "file", "logo.png", encodePNG(t, 10, 10), token))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestUploadWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "editor@biocms.test")

	admin := NewAdmin(AdminDeps{
		Taxonomy: env.taxonomy,
		Content:  env.content,
		Site:     env.site,
		Accounts: env.accounts,
		Dashboard: service.NewDashboardService(
			env.db.Blogs(), env.db.News(), env.db.Categories(), env.db.Subcategories(), env.db.Services()),
	})
	router := testRouter(NewPublic(env.taxonomy, env.content, env.site, nil), NewAuth(env.accounts, false), admin, env.accounts)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, uploadRequest(t, "file", "logo.png", encodePNG(t, 10, 10), token))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "storage_unavailable", decode(t, rr)["code"])
}

func TestDeleteUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "editor@biocms.test")

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, uploadRequest(t, "file", "hero.png", encodePNG(t, 1000, 500), token))
	require.Equal(t, http.StatusCreated, rr.Code)
	uploaded := decode(t, rr)
	key := uploaded["key"].(string)

	rr = env.do(t, http.MethodDelete, "/api/admin/uploads", map[string]any{"url": uploaded["url"]}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, key, decode(t, rr)["deleted"])
	assert.False(t, env.images.has(key))
	assert.False(t, env.images.has(thumbKey(key)))

	tests := []struct {
		name string
		body any
		code string
	}{
		{name: "missing url", body: map[string]any{}, code: "missing_field"},
		{name: "foreign host", body: map[string]any{"url": "https://elsewhere.test/uploads/a.png"}, code: "invalid_field"},
		{name: "outside uploads", body: map[string]any{"url": imageBase + "backups/db.sql"}, code: "invalid_field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodDelete, "/api/admin/uploads", tt.body, token)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decode(t, rr)["code"])
		})
	}
}
