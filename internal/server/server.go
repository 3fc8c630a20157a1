package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/markbryceit/eatwell.ai-sub000/config"
	"github.com/markbryceit/eatwell.ai-sub000/internal/database"
	"github.com/markbryceit/eatwell.ai-sub000/internal/router"
	"github.com/markbryceit/eatwell.ai-sub000/internal/service"
)

// Server owns the HTTP listener and the infrastructure it depends on.
type Server struct {
	http *http.Server
	cfg  *config.Config
}

// New connects the database and redis, runs migrations, and wires the
// router. Redis and S3 failures are non-fatal; the affected features
// degrade.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, plan caching and rate limiting disabled: %v", err)
		redisClient = nil
	}

	llm, err := service.NewLLMClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Printf("S3 unavailable, image upload disabled: %v", err)
		s3Config = nil
	}

	engine := router.New(router.Deps{
		DB:       db,
		Redis:    redisClient,
		LLM:      llm,
		S3Config: s3Config,
		Cfg:      cfg,
	})

	return &Server{
		http: &http.Server{
			Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		cfg: cfg,
	}, nil
}

// Start blocks serving HTTP until the listener closes.
func (s *Server) Start() error {
	log.Printf("listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
