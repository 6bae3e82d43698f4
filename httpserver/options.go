package httpserver

import (
	"log/slog"

	"moviedex/movie"
	"moviedex/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

type Options func(s *Server) error

func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		s.Config = cfg
		return nil
	}
}

func WithMovieService(svc movie.Service) Options {
	return func(s *Server) error {
		s.MovieService = svc
		return nil
	}
}

func WithLogger(logger *slog.Logger) Options {
	return func(s *Server) error {
		s.Logger = logger
		return nil
	}
}

func WithRegistry(reg *prometheus.Registry) Options {
	return func(s *Server) error {
		s.Registry = reg
		return nil
	}
}
