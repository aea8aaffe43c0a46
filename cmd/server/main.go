package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"

	"github.com/balain/bkmrkr/internal/auth"
	"github.com/balain/bkmrkr/internal/auth/context/loggercontext"
	"github.com/balain/bkmrkr/internal/auth/context/usercontext"
	"github.com/balain/bkmrkr/internal/cache"
	"github.com/balain/bkmrkr/internal/config"
	"github.com/balain/bkmrkr/internal/db"
	"github.com/balain/bkmrkr/internal/db/migrations"
	"github.com/balain/bkmrkr/internal/logging"
	"github.com/balain/bkmrkr/internal/models"
	"github.com/balain/bkmrkr/internal/resolver"
	"github.com/balain/bkmrkr/internal/service"
	"github.com/balain/bkmrkr/web"
	"github.com/balain/bkmrkr/web/views"
)

func setupDb(cfg config.SqliteConfig) (*sql.DB, error) {
	handle, err := db.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	if err := migrations.Up(handle); err != nil {
		handle.Close()
		return nil, fmt.Errorf("migrating db: %w", err)
	}
	return handle, nil
}

func main() {
	cfg, err := config.LoadEnvConfig()
	if err != nil {
		panic(err)
	}

	logging.Init(cfg)
	defer logging.Sync()

	err = run(cfg)
	if err != nil {
		panic(err)
	}
}

func run(cfg *config.AppConfig) error {
	// Database
	handle, err := setupDb(cfg.DB)
	if err != nil {
		return err
	}
	defer handle.Close()

	snapshots, err := cache.NewSnapshotStore(cfg.Cache.Dir)
	if err != nil {
		return err
	}

	// Services
	bookmarkModel := &models.BookmarkModel{
		DB: handle,
	}

	// Middlewares
	umw := auth.UserMiddleware{
		Header: cfg.Auth.Header,
	}
	csrfMw := csrf.Protect(
		[]byte(cfg.CSRF.Key),
		csrf.Secure(cfg.CSRF.Secure),
		csrf.Path("/"),
	)

	// Controllers
	bookmarksController := service.Bookmarks{
		BookmarkModel: bookmarkModel,
		Snapshots:     snapshots,
		Resolver:      resolver.NewResolver(cfg.Contact),
		AliasEnabled:  cfg.Bookmarks.AliasEnabled,
		ReferenceYear: cfg.Bookmarks.ReferenceYear,
	}
	bookmarksController.Templates.Display = views.Must(views.ParseTemplate("bookmarks/display.gohtml", "bootstrap.gohtml"))
	bookmarksController.Templates.Saved = views.Must(views.ParseTemplate("bookmarks/saved.gohtml", "bootstrap.gohtml"))

	redirectorController := service.Redirector{
		BookmarkModel: bookmarkModel,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthCheck)

	r.Group(func(r chi.Router) {
		r.Use(csrfMw)
		r.Use(umw.SetUser)
		r.Use(LoggerMiddleware(cfg.Environment == "production"))

		r.Get("/", web.StaticHandler(
			views.Must(views.ParseTemplate("home.gohtml", "bootstrap.gohtml"))))

		r.Route("/bookmarks", func(r chi.Router) {
			r.Use(umw.RequireUser)
			r.Get("/", bookmarksController.Display)
			r.Get("/add", bookmarksController.Save)
			r.Get("/list", bookmarksController.ListAPI)
			r.Get("/count", bookmarksController.CountAPI)
			r.Get("/visit/{key}", redirectorController.Visit)
		})

		// Short alias path, kept terse since it lands in shared links.
		r.Group(func(r chi.Router) {
			r.Use(umw.RequireUser)
			r.Get("/n/{key}", redirectorController.Visit)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	logging.Logger.Infof("Starting server on %s...", cfg.Server.Address)
	return http.ListenAndServe(cfg.Server.Address, r)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

func LoggerMiddleware(isProduction bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t1 := time.Now()
			ctx := r.Context()
			reqLogger := logging.Logger.With(
				"req_path", r.URL.Path,
				"req_method", r.Method,
			)

			if user := usercontext.User(ctx); user != "" {
				reqLogger = reqLogger.With("user", user)
			}
			ctx = loggercontext.WithLogger(ctx, reqLogger)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				reqLogger.Debugw("http request", "from", r.RemoteAddr, "status", ww.Status(), "size", ww.BytesWritten(), "duration", time.Since(t1))
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
