package httpserver

import (
	"net/http"
	"strings"

	"moviedex/errs"
	"moviedex/movie"

	"github.com/labstack/echo/v4"
)

type SearchMoviesRequest struct {
	Genre   string `query:"genre"`
	Country string `query:"country"`
	Average string `query:"average"`
}

// Criteria treats empty parameters as absent. A non-empty average that is
// not a number becomes NaN and matches nothing.
func (r SearchMoviesRequest) Criteria() movie.Criteria {
	c := movie.Criteria{
		Genre:   r.Genre,
		Country: r.Country,
	}
	if r.Average != "" {
		v := movie.ParseAverage(r.Average)
		c.MinAverageVote = &v
	}
	return c
}

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/movie", s.handleSearchMovies, s.bearerAuth())
}

// handleSearchMovies godoc
// @Summary Search Movies
// @Description Filter movies by genre, country and minimum average vote
// @Tags movies
// @Produce json
// @Param genre query string false "Case-insensitive substring of the genre"
// @Param country query string false "Case-insensitive substring of the country"
// @Param average query number false "Minimum avg_vote, inclusive"
// @Security BearerAuth
// @Success 200 {array} movie.Movie
// @Failure 401 {object} map[string]string
// @Router /movie [get]
func (s *Server) handleSearchMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	var req SearchMoviesRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid query: %s", strings.TrimSpace(err.Error()))
	}

	results, err := s.MovieService.Search(c.Request().Context(), req.Criteria())
	if err != nil {
		return err
	}

	s.metrics.SearchResults.Observe(float64(len(results)))
	return c.JSON(http.StatusOK, results)
}
