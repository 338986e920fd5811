package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"biocms/internal/auth"
	"biocms/internal/middleware"
	"biocms/internal/mocks"
	"biocms/internal/models"
	"biocms/internal/service"
)

const testSecret = "handler-test-secret-0123456789abcdef"

// memCache is an in-memory ResponseCache.
type memCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = body
}

func (c *memCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.invalidations++
}

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// memImages is an in-memory ImageStore.
type memImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

const imageBase = "https://cdn.biocms.test/"

func newMemImages() *memImages {
	return &memImages{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memImages) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memImages) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memImages) FileURL(key string) string { return imageBase + key }

func (m *memImages) KeyFromURL(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, imageBase)
	return key, ok && key != ""
}

func (m *memImages) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// testEnv wires every handler group over one in-memory database.
type testEnv struct {
	db       *mocks.DB
	taxonomy *service.TaxonomyService
	content  *service.ContentService
	site     *service.SiteService
	accounts *auth.Service
	denylist *mocks.Denylist
	cache    *memCache
	images   *memImages
	router   chi.Router

	super *models.Admin
	admin *models.Admin
}

const testPassword = "correct-horse-battery"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := mocks.NewDB()
	env := &testEnv{
		db:       db,
		taxonomy: service.NewTaxonomyService(db.Categories(), db.Subcategories()),
		content:  service.NewContentService(db.Blogs(), db.News(), db.Categories(), db.Subcategories()),
		site:     service.NewSiteService(db.Settings(), db.Pages(), db.Services()),
		denylist: mocks.NewDenylist(),
		cache:    newMemCache(),
		images:   newMemImages(),
	}
	env.accounts = auth.NewService(db.Admins(), auth.NewTokens(testSecret, time.Hour), env.denylist)
	t.Cleanup(env.content.Wait)

	ctx := context.Background()
	var err error
	env.super, err = db.Admins().Create(ctx, "root@biocms.test", testPassword, "Root", models.RoleSuperAdmin)
	require.NoError(t, err)
	env.admin, err = db.Admins().Create(ctx, "editor@biocms.test", testPassword, "Editor", models.RoleAdmin)
	require.NoError(t, err)

	public := NewPublic(env.taxonomy, env.content, env.site, env.cache)
	authH := NewAuth(env.accounts, false)
	admin := NewAdmin(AdminDeps{
		Taxonomy:  env.taxonomy,
		Content:   env.content,
		Site:      env.site,
		Dashboard: service.NewDashboardService(db.Blogs(), db.News(), db.Categories(), db.Subcategories(), db.Services()),
		Accounts:  env.accounts,
		Images:    env.images,
		Cache:     env.cache,
	})
	env.router = testRouter(public, authH, admin, env.accounts)
	return env
}

// testRouter mounts the handlers the way the production router does.
func testRouter(public *Public, authH *Auth, admin *Admin, gate middleware.Authenticator) chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", public.Categories)
		r.Get("/categories/{slug}", public.Category)
		r.Get("/blogs", public.Blogs)
		r.Get("/blogs/{slug}", public.Blog)
		r.Get("/news", public.News)
		r.Get("/news/{slug}", public.NewsItem)
		r.Get("/settings", public.Settings)
		r.Get("/pages/{page}", public.Page)
		r.Get("/services", public.Services)
		r.Get("/services/{slug}", public.Service)

		r.Post("/auth/login", authH.Login)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(gate))
			r.Use(middleware.CSRF)
			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/me", authH.Me)
			r.Post("/auth/2fa/setup", authH.TwoFASetup)
			r.Post("/auth/2fa/enable", authH.TwoFAEnable)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(gate))
			r.Use(middleware.CSRF)
			r.Get("/dashboard", admin.Dashboard)
			r.Get("/slug", admin.SlugPreview)

			r.Get("/categories", admin.CategoriesList)
			r.Post("/categories", admin.CategoryCreate)
			r.Post("/categories/reorder", admin.CategoriesReorder)
			r.Get("/categories/{id}", admin.CategoryGet)
			r.Put("/categories/{id}", admin.CategoryUpdate)
			r.Delete("/categories/{id}", admin.CategoryDelete)

			r.Get("/subcategories", admin.SubcategoriesList)
			r.Post("/subcategories", admin.SubcategoryCreate)
			r.Post("/subcategories/reorder", admin.SubcategoriesReorder)
			r.Get("/subcategories/{id}", admin.SubcategoryGet)
			r.Put("/subcategories/{id}", admin.SubcategoryUpdate)
			r.Delete("/subcategories/{id}", admin.SubcategoryDelete)

			r.Get("/blogs", admin.BlogsList)
			r.Post("/blogs", admin.BlogCreate)
			r.Get("/blogs/{id}", admin.BlogGet)
			r.Put("/blogs/{id}", admin.BlogUpdate)
			r.Delete("/blogs/{id}", admin.BlogDelete)

			r.Get("/news", admin.NewsList)
			r.Post("/news", admin.NewsCreate)
			r.Get("/news/{id}", admin.NewsGet)
			r.Put("/news/{id}", admin.NewsUpdate)
			r.Delete("/news/{id}", admin.NewsDelete)

			r.Get("/pages", admin.PagesList)
			r.Get("/pages/{page}", admin.PageContentList)
			r.Put("/page-content", admin.PageContentPut)
			r.Delete("/page-content/{id}", admin.PageContentDelete)

			r.Get("/services", admin.ServicesList)
			r.Post("/services", admin.ServiceCreate)
			r.Get("/services/{id}", admin.ServiceGet)
			r.Put("/services/{id}", admin.ServiceUpdate)
			r.Delete("/services/{id}", admin.ServiceDelete)

			r.Post("/uploads", admin.Upload)
			r.Delete("/uploads", admin.DeleteUpload)

			r.Get("/settings", admin.SettingsList)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleSuperAdmin))
				r.Put("/settings/{key}", admin.SettingPut)
				r.Delete("/settings/{key}", admin.SettingDelete)
				r.Get("/admins", admin.AdminsList)
				r.Post("/admins", admin.AdminCreate)
				r.Put("/admins/{id}/active", admin.AdminSetActive)
			})
		})
	})
	return r
}

// login returns a bearer token for email.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	sess, err := e.accounts.Login(context.Background(), email, testPassword, "")
	require.NoError(t, err)
	return sess.Token
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decode parses a JSON envelope.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

// object returns body[key] as a JSON object.
func object(t *testing.T, body map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := body[key].(map[string]any)
	require.Truef(t, ok, "%s is not an object: %v", key, body[key])
	return v
}

// list returns body[key] as a JSON array.
func list(t *testing.T, body map[string]any, key string) []any {
	t.Helper()
	v, ok := body[key].([]any)
	require.Truef(t, ok, "%s is not an array: %v", key, body[key])
	return v
}

// mustCreate posts body to path as token and returns the created object
// under key.
func (e *testEnv) mustCreate(t *testing.T, path, key string, body any, token string) map[string]any {
	t.Helper()
	rr := e.do(t, http.MethodPost, path, body, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return object(t, decode(t, rr), key)
}

// id extracts a numeric JSON id.
func id(t *testing.T, obj map[string]any) int64 {
	t.Helper()
	f, ok := obj["id"].(float64)
	require.Truef(t, ok, "id missing: %v", obj)
	return int64(f)
}
