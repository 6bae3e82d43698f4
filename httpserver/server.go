package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"moviedex/errs"
	"moviedex/movie"
	"moviedex/pkg/config"
	"moviedex/pkg/sentry"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	Config *config.Config
	Logger *slog.Logger

	// Registry collects the server metrics exposed on /metrics
	Registry *prometheus.Registry

	MovieService movie.Service

	metrics *Metrics
}

func New(options ...Options) (*Server, error) {
	s := Server{
		Router: echo.New(),
		Addr:   ":8000",
		Config: config.Empty,
		Logger: slog.Default(),
	}

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	if s.Config.Port != 0 {
		s.Addr = fmt.Sprintf(":%d", s.Config.Port)
	}
	if s.Registry == nil {
		s.Registry = prometheus.NewRegistry()
		s.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	s.metrics = NewMetrics(s.Registry)
	if s.MovieService != nil {
		s.metrics.CatalogSize.Set(float64(s.MovieService.Count()))
	}

	s.Router.HideBanner = true
	s.Router.HidePort = true
	s.Router.HTTPErrorHandler = s.handleHTTPError
	s.RegisterGlobalMiddlewares()

	s.RegisterHealthRoutes()
	s.RegisterMetricsRoutes()
	s.RegisterMovieRoutes(s.Router.Group(""))

	return &s, nil
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Pre(middleware.RemoveTrailingSlash())

	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return ulid.Make().String()
		},
	}))
	s.Router.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError:  true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.Logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	}))
	s.Router.Use(s.metrics.Middleware())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	// CORS
	if origins := s.Config.Origins(); len(origins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		}))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// handleHTTPError maps application errors to appropriate HTTP status codes.
// The body is always {"error": message}.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		}
	}

	if code >= http.StatusInternalServerError {
		id := s.requestID(c)
		s.Logger.Error(err.Error(), "request_id", id)
		sentry.WithContext(c).
			WithTags(map[string]string{"route": routeLabel(c), "request_id": id}).
			WithExtras(map[string]interface{}{"status": code}).
			Error(err)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}
	if err := c.JSON(code, map[string]string{"error": message}); err != nil {
		s.Logger.Error("write error response", "error", err)
	}
}

func (s *Server) requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
