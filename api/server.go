package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/inventory-catalog/auth"
	"github.com/rpupo63/inventory-catalog/catalog"
	"github.com/rpupo63/inventory-catalog/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(service *catalog.Service, c map[string]string) (Server, error) {
	secret, err := config.Require(c, "JWT_SECRET")
	if err != nil {
		return Server{}, err
	}
	verifier := auth.NewTokenVerifier(secret, config.GetString(c, "JWT_ISSUER", ""))

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(service, verifier,
		withAcceptedOrigins(config.GetList(c, "ACCEPTED_ORIGINS")),
		withStartupTime(startupTime),
	)

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	acceptedOrigins []string
	startupTime     time.Time
	requestLogging  bool
}

func withAcceptedOrigins(origins []string) func(*router) {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withoutRequestLogging() func(*router) {
	return func(r *router) {
		r.requestLogging = false
	}
}

func newRouter(service *catalog.Service, verifier *auth.TokenVerifier, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now(), requestLogging: true}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	if router.requestLogging {
		chiRouter.Use(ColoredHTTPLoggingMiddleware)
	}

	chiRouter.Use(CORSCheckMiddleware(router.acceptedOrigins))
	chiRouter.Use(corsHandler(router.acceptedOrigins))

	handlers := initializeHandlers(service, router.startupTime)
	setupRoutes(chiRouter, handlers, newAuthMiddleware(verifier))

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().
		Dur("uptime", time.Since(s.startupTime)).
		Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
