// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"biocms/internal/auth"
	"biocms/internal/cache"
	"biocms/internal/database"
	"biocms/internal/handlers"
	"biocms/internal/router"
	"biocms/internal/service"
	"biocms/internal/storage"
	"biocms/internal/store"
)

const (
	// devAdminEmail and devAdminPassword seed the first account in
	// development only.
	devAdminEmail    = "admin@biocms.local"
	devAdminPassword = "biocms-admin"

	shutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP API. Pending migrations are applied on start. In
development the database is also seeded and a default super admin is
created when no account exists.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loaded
	ctx := cmd.Context()
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
		if err := database.SeedAdmin(ctx, db, devAdminEmail, devAdminPassword); err != nil {
			return err
		}
	}

	gdb, err := database.OpenGorm(db)
	if err != nil {
		return err
	}

	valkey, err := cache.ConnectValkey(ctx, cache.Options{
		Host:     cfg.ValkeyHost,
		Port:     cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		return err
	}
	defer valkey.Close()

	// Persistence gateway: raw SQL for the taxonomy, content and admins;
	// gorm for the flat site tables.
	admins := store.NewAdminStore(db)
	categories := store.NewCategoryStore(db)
	subcategories := store.NewSubcategoryStore(db)
	blogs := store.NewBlogStore(db)
	news := store.NewNewsBlogStore(db)
	settings := store.NewSiteSettingStore(gdb)
	pages := store.NewPageContentStore(gdb)
	services := store.NewServicePageStore(gdb)

	taxonomy := service.NewTaxonomyService(categories, subcategories)
	content := service.NewContentService(blogs, news, categories, subcategories)
	site := service.NewSiteService(settings, pages, services)
	dashboard := service.NewDashboardService(blogs, news, categories, subcategories, services)
	accounts := auth.NewService(admins, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), cache.NewTokenDenylist(valkey))
	responses := cache.NewResponseCache(valkey, cfg.CacheTTL)

	deps := handlers.AdminDeps{
		Taxonomy:  taxonomy,
		Content:   content,
		Site:      site,
		Dashboard: dashboard,
		Accounts:  accounts,
		Cache:     responses,
	}
	images, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init image storage: %w", err)
	}
	if images != nil {
		deps.Images = images
		slog.Info("image storage connected", "bucket", cfg.Storage.Bucket)
	} else {
		slog.Warn("image storage not configured, uploads disabled")
	}

	secureCookies := !cfg.IsDev()
	r := router.New(router.Deps{
		Public:       handlers.NewPublic(taxonomy, content, site, responses),
		Auth:         handlers.NewAuth(accounts, secureCookies),
		Admin:        handlers.NewAdmin(deps),
		Gate:         accounts,
		LoginLimiter: cache.NewWindowLimiter(valkey, cfg.LoginRateLimit, time.Minute),
		TrustProxy:   cfg.TrustProxy,
		Checks: map[string]router.Pinger{
			"database": db,
			"valkey":   cache.Pinger{Client: valkey},
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		// Uploads of up to 10 MB need more than a header timeout.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Let in-flight view counters land before the pool closes.
	content.Wait()
	slog.Info("server stopped gracefully")
	return nil
}
