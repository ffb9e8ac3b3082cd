package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/algorave/errorstack/internal/classifiers"
	"codeberg.org/algorave/errorstack/internal/config"
	"codeberg.org/algorave/errorstack/internal/history"
	"codeberg.org/algorave/errorstack/internal/logger"
	"codeberg.org/algorave/errorstack/internal/parser"
	"codeberg.org/algorave/errorstack/internal/store"
	ws "codeberg.org/algorave/errorstack/internal/websocket"
	"github.com/gin-gonic/gin"
)

// buffered events per store subscriber before events are dropped
const subscriberBuffer = 64

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	classifierConfig, err := cfg.Classifiers.Compile()
	if err != nil {
		return nil, err
	}

	errorStore := store.New()
	chain := parser.New(errorStore)

	if err := classifiers.RegisterStandard(chain, classifierConfig); err != nil {
		return nil, fmt.Errorf("failed to register classifiers: %w", err)
	}

	server := &Server{
		config: cfg,
		store:  errorStore,
		chain:  chain,
	}

	// redis and postgres are optional; without them the service keeps state in memory
	if cfg.RedisURL != "" {
		mirror, err := store.NewRedisMirror(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}

		server.mirror = mirror
	}

	if cfg.DatabaseURL != "" {
		dbCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		hist, err := history.Open(dbCtx, cfg.DatabaseURL)
		if err != nil {
			server.closeBackends()
			return nil, err
		}

		server.history = hist
	}

	proxy, err := newProxy(cfg.UpstreamURL, chain)
	if err != nil {
		server.closeBackends()
		return nil, err
	}

	server.proxy = proxy

	server.hub = ws.NewHub(errorStore)
	server.hub.RegisterDefaultHandlers()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server.router = gin.New()
	server.router.Use(gin.Recovery())

	if err := RegisterRoutes(server.router, server); err != nil {
		server.closeBackends()
		return nil, err
	}

	logger.Info("error parser chain ready",
		"classifiers", chain.Len(),
		"upstream", cfg.UpstreamURL,
		"redis", server.mirror != nil,
		"history", server.history != nil,
	)

	return server, nil
}

// starts the hub and the store subscribers; they stop when ctx is done
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run()

	events, _ := s.store.Subscribe(subscriberBuffer)
	go s.hub.Consume(ctx, events)

	if s.mirror != nil {
		events, _ := s.store.Subscribe(subscriberBuffer)
		go s.mirror.Run(ctx, events)
	}

	if s.history != nil {
		events, _ := s.store.Subscribe(subscriberBuffer)
		go s.history.Run(ctx, events)
	}
}

// stops the hub, closes subscriber channels and backend connections
func (s *Server) Stop() {
	s.hub.Shutdown()
	s.store.Close()
	s.closeBackends()
}

func (s *Server) closeBackends() {
	if s.mirror != nil {
		s.mirror.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	if s.history != nil {
		s.history.Close()
	}
}

func (s *Server) ClassifierCount() int {
	return s.chain.Len()
}

func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}
