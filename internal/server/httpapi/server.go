// Package httpapi exposes the recipe and account services over a JSON HTTP
// API mounted under /api.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipeshare/internal/logging"
	"github.com/dmitrijs2005/recipeshare/internal/server/config"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// ExternalSearcher looks recipes up at a third-party provider.
type ExternalSearcher interface {
	Search(ctx context.Context, term string) ([]models.ExternalRecipe, error)
}

type HTTPServer struct {
	address     string
	users       *services.UserService
	recipes     *services.RecipeService
	external    ExternalSearcher
	logger      logging.Logger
	jwtSecret   []byte
	corsOrigins []string
	uploadsDir  string

	authRateLimit int
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us *services.UserService, rs *services.RecipeService, ext ExternalSearcher) *HTTPServer {
	s := &HTTPServer{
		address:       cfg.HTTPAddr,
		users:         us,
		recipes:       rs,
		external:      ext,
		logger:        l.With("module", "http_server"),
		jwtSecret:     []byte(cfg.SecretKey),
		corsOrigins:   cfg.CORSOrigins,
		authRateLimit: 20,
	}
	if cfg.ImageBackend == config.ImagesDisk {
		s.uploadsDir = cfg.UploadsDir
	}
	return s
}

// Handler builds the route tree.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", accessTokenHeader},
		MaxAge:         86400,
	}))

	r.Handle("/metrics", promhttp.Handler())
	if s.uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.instrument)

		r.Get("/health", s.health)

		r.Route("/auth", func(r chi.Router) {
			r.Use(httprate.LimitByIP(s.authRateLimit, time.Minute))
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Post("/refresh", s.refresh)
			r.With(s.requireAuth).Get("/me", s.me)
			r.With(s.requireAuth).Post("/logout", s.logout)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.listRecipes)
			r.Get("/suggestions", s.suggestRecipes)
			r.Get("/{id}", s.getRecipe)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/my", s.myRecipes)
				r.Post("/", s.createRecipe)
				r.Put("/{id}", s.updateRecipe)
				r.Delete("/{id}", s.deleteRecipe)
				r.Put("/{id}/rate", s.rateRecipe)
				r.Post("/{id}/comment", s.addComment)
				r.Delete("/{id}/comment/{commentId}", s.deleteComment)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(s.requireAuth).Get("/favorites", s.favorites)
			r.With(s.requireAuth).Put("/favorites/{recipeId}", s.toggleFavorite)
			r.Get("/{userId}", s.profile)
		})

		r.Get("/external-recipes/search", s.searchExternal)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
