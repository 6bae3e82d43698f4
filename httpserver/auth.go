package httpserver

import (
	"crypto/subtle"
	"strings"

	"moviedex/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ErrUnauthorized is returned for every rejected credential, whatever the cause.
var ErrUnauthorized = errs.Errorf(errs.EUNAUTHORIZED, "Unauthorized request")

// bearerAuth rejects requests whose Authorization header does not carry
// the configured API token as its second whitespace-separated word.
func (s *Server) bearerAuth() echo.MiddlewareFunc {
	token := s.Config.APIToken
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		// empty prefix: the validator sees the whole header, scheme word included
		KeyLookup: "header:" + echo.HeaderAuthorization + ":",
		Validator: func(header string, c echo.Context) (bool, error) {
			return matchBearer(header, token), nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			s.metrics.AuthFailuresTotal.Inc()
			return ErrUnauthorized
		},
	})
}

func matchBearer(header, token string) bool {
	if token == "" {
		return false
	}
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) == 1
}
