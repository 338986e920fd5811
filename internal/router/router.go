// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// biocms JSON API. Routes are split into the public read API, the session
// endpoints and the authenticated admin API.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"biocms/internal/handlers"
	"biocms/internal/middleware"
	"biocms/internal/models"
	"biocms/internal/response"
)

// healthTimeout bounds all dependency pings of one /health request.
const healthTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Public *handlers.Public
	Auth   *handlers.Auth
	Admin  *handlers.Admin

	// Gate resolves session tokens for protected routes.
	Gate middleware.Authenticator

	// LoginLimiter throttles login attempts per client IP. Optional.
	LoginLimiter middleware.Limiter

	// TrustProxy takes the client IP from forwarding headers. Set it only
	// behind a reverse proxy that overwrites them.
	TrustProxy bool

	// Checks are pinged by /health, keyed by the name reported back.
	Checks map[string]Pinger
}

// New creates the chi router with all middleware and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(d.Checks))

	r.Route("/api", func(r chi.Router) {
		// Public read API.
		r.Get("/categories", d.Public.Categories)
		r.Get("/categories/{slug}", d.Public.Category)
		r.Get("/blogs", d.Public.Blogs)
		r.Get("/blogs/{slug}", d.Public.Blog)
		r.Get("/news", d.Public.News)
		r.Get("/news/{slug}", d.Public.NewsItem)
		r.Get("/settings", d.Public.Settings)
		r.Get("/pages/{page}", d.Public.Page)
		r.Get("/services", d.Public.Services)
		r.Get("/services/{slug}", d.Public.Service)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Group(func(r chi.Router) {
				if d.LoginLimiter != nil {
					r.Use(middleware.RateLimit(d.LoginLimiter, "login"))
				}
				r.Post("/login", d.Auth.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(d.Gate))
				r.Use(middleware.CSRF)
				r.Post("/logout", d.Auth.Logout)
				r.Get("/me", d.Auth.Me)
				r.Post("/2fa/setup", d.Auth.TwoFASetup)
				r.Post("/2fa/enable", d.Auth.TwoFAEnable)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Gate))
			r.Use(middleware.NoStore)
			r.Use(middleware.CSRF)
			mountAdmin(r, d.Admin)
		})
	})

	return r
}

// mountAdmin registers the admin API. Every route requires an
// authenticated admin; settings writes and account management also require
// super_admin.
func mountAdmin(r chi.Router, a *handlers.Admin) {
	r.Get("/dashboard", a.Dashboard)
	r.Get("/slug", a.SlugPreview)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", a.CategoriesList)
		r.Post("/", a.CategoryCreate)
		r.Post("/reorder", a.CategoriesReorder)
		r.Get("/{id}", a.CategoryGet)
		r.Put("/{id}", a.CategoryUpdate)
		r.Delete("/{id}", a.CategoryDelete)
	})

	r.Route("/subcategories", func(r chi.Router) {
		r.Get("/", a.SubcategoriesList)
		r.Post("/", a.SubcategoryCreate)
		r.Post("/reorder", a.SubcategoriesReorder)
		r.Get("/{id}", a.SubcategoryGet)
		r.Put("/{id}", a.SubcategoryUpdate)
		r.Delete("/{id}", a.SubcategoryDelete)
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", a.BlogsList)
		r.Post("/", a.BlogCreate)
		r.Get("/{id}", a.BlogGet)
		r.Put("/{id}", a.BlogUpdate)
		r.Delete("/{id}", a.BlogDelete)
	})

	r.Route("/news", func(r chi.Router) {
		r.Get("/", a.NewsList)
		r.Post("/", a.NewsCreate)
		r.Get("/{id}", a.NewsGet)
		r.Put("/{id}", a.NewsUpdate)
		r.Delete("/{id}", a.NewsDelete)
	})

	r.Get("/pages", a.PagesList)
	r.Get("/pages/{page}", a.PageContentList)
	r.Put("/page-content", a.PageContentPut)
	r.Delete("/page-content/{id}", a.PageContentDelete)

	r.Route("/services", func(r chi.Router) {
		r.Get("/", a.ServicesList)
		r.Post("/", a.ServiceCreate)
		r.Get("/{id}", a.ServiceGet)
		r.Put("/{id}", a.ServiceUpdate)
		r.Delete("/{id}", a.ServiceDelete)
	})

	r.Post("/uploads", a.Upload)
	r.Delete("/uploads", a.DeleteUpload)

	r.Get("/settings", a.SettingsList)

	// super_admin only
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleSuperAdmin))
		r.Put("/settings/{key}", a.SettingPut)
		r.Delete("/settings/{key}", a.SettingDelete)

		r.Get("/admins", a.AdminsList)
		r.Post("/admins", a.AdminCreate)
		r.Put("/admins/{id}/active", a.AdminSetActive)
	})
}

// healthHandler reports liveness plus the state of every dependency in
// checks. Any failing check turns the response into a 503.
func healthHandler(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok"}
		if len(checks) > 0 {
			results := make(map[string]string, len(checks))
			for name, p := range checks {
				if err := p.PingContext(ctx); err != nil {
					slog.Warn("health check failed", "check", name, "error", err)
					results[name] = "unavailable"
					status = http.StatusServiceUnavailable
					continue
				}
				results[name] = "ok"
			}
			body["checks"] = results
		}
		if status != http.StatusOK {
			body["status"] = "unavailable"
		}

		w.Header().Set("Cache-Control", "no-store")
		response.JSON(w, status, body)
	}
}
