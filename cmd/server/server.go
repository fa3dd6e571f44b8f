package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	appkafka "example.com/socialfeed/internal/broker"
	"example.com/socialfeed/internal/engagement"
	"example.com/socialfeed/internal/feed"
	config "example.com/socialfeed/internal/init"
	"example.com/socialfeed/internal/logger"
	"example.com/socialfeed/internal/media"
	"example.com/socialfeed/internal/middleware"
	"example.com/socialfeed/internal/search"
	"example.com/socialfeed/internal/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	store      store.StoreInterface
	feed       *feed.Composer
	engagement *engagement.Service
	search     *search.Index
	media      *media.Resolver
	jwtSecret  []byte
	tokenTTL   time.Duration
	pageSize   int
}

var logg = logger.New()

// New wires the request handlers over st. pub may be nil.
func New(st store.StoreInterface, pub appkafka.Publisher, cfg *config.Config) *Server {
	pageSize := cfg.FeedPageSize
	if pageSize <= 0 {
		pageSize = feed.DefaultPageSize
	}
	ttl := cfg.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Server{
		store:      st,
		feed:       feed.New(st, pageSize),
		engagement: engagement.New(st, pub),
		search:     search.New(st),
		media:      media.New(cfg.MediaRoot, cfg.MediaBaseURL),
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   ttl,
		pageSize:   pageSize,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	// Public endpoints
	r.Post("/users", s.createUserHandler)
	r.Get("/posts/{id}", s.getPostHandler)
	r.Get("/search", s.searchHandler)
	r.Get("/hashtags/{name}", s.hashtagFeedHandler)

	// Anonymous access allowed, the viewer changes the result
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalJWTAuth(s.jwtSecret))
		r.Get("/users/{username}", s.getProfileHandler)
		r.Get("/feed", s.getFeedHandler)
	})

	// Protected endpoints with JWT authentication middleware
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(s.jwtSecret))
		r.Put("/users/me", s.updateProfileHandler)
		r.Post("/users/{username}/follow", s.followHandler)
		r.Post("/posts", s.createPostHandler)
		r.Post("/posts/{id}/like", s.likeHandler)
		r.Post("/posts/{id}/retweet", s.retweetHandler)
		r.Get("/notifications", s.listNotificationsHandler)
		r.Post("/notifications/{id}/read", s.markNotificationReadHandler)
	})

	// Local media, when served from this process
	if base := strings.TrimSuffix(s.media.BaseURL, "/"); strings.HasPrefix(base, "/") && s.media.Root != "" {
		r.Handle(base+"/*", http.StripPrefix(base, http.FileServer(http.Dir(s.media.Root))))
	}

	return r
}

// Run serves s until ctx is cancelled, then shuts down gracefully.
// TLS is used when both certFile and keyFile are set.
func Run(ctx context.Context, s *Server, addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second, // prevent slowloris attacks
		WriteTimeout: 10 * time.Second,
	}

	// --- Start server in a goroutine ---
	errCh := make(chan error, 1)
	go func() {
		var err error
		if certFile != "" && keyFile != "" {
			logg.Info("server", "Starting HTTPS server on "+addr)
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			logg.Info("server", "Starting HTTP server on "+addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("server", "Server stopped unexpectedly", err)
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful shutdown ---
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logg.Info("server", "Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server", "Error during server shutdown", err)
		return err
	}
	logg.Info("server", "Server stopped gracefully")
	return nil
}
