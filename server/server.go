package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/recipescope/pkg/config"
	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/pipeline"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser
//go:generate moq -out mocks/recipes.go -pkg mocks -skip-ensure -fmt goimports . Recipes

// ErrNotFound is returned by Recipes for unknown keys
var ErrNotFound = errors.New("recipe not found")

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	parser  Parser
	recipes Recipes
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Parser runs parse requests
type Parser interface {
	Parse(ctx context.Context, input string, opts pipeline.Options) pipeline.Result
	ParseBatch(ctx context.Context, inputs []string, opts pipeline.Options) []pipeline.Result
}

// Recipes gives access to stored recipes and their forks
type Recipes interface {
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	Fork(ctx context.Context, parentKey string, recipe *domain.CombinedRecipe) (*domain.CacheEntry, error)
	Forks(ctx context.Context, parentKey string) ([]*domain.CacheEntry, error)
	Status(ctx context.Context) (domain.StoreStats, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetFullConfig() *config.Config
}

// New initializes a new server instance
func New(cfg ConfigProvider, parser Parser, recipes Recipes, version string, debug bool) *Server {
	s := &Server{
		config:  cfg,
		parser:  parser,
		recipes: recipes,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("recipescope", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /parse", s.parseHandler)
		r.HandleFunc("GET /recipe", s.getRecipeHandler)
		r.HandleFunc("POST /recipe/fork", s.forkHandler)
		r.HandleFunc("GET /recipe/forks", s.forksHandler)
		r.HandleFunc("POST /ingredients/parse", s.parseIngredientsHandler)
		r.HandleFunc("POST /grocery", s.groceryHandler)
	})
}
