package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"moviedex/httpserver"
	"moviedex/movie"
	"moviedex/pkg/config"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAPIToken = "test-api-token"

func testConfig() *config.Config {
	cfg := &config.Config{APIToken: testAPIToken}
	cfg.Dataset.Source = config.DatasetEmbedded
	return cfg
}

func testMovies() []movie.Movie {
	return []movie.Movie{
		{
			Title: "A", Genre: "Comedy, Drama", Country: "USA", AvgVote: 7.5,
			Extra: map[string]json.RawMessage{"year": json.RawMessage(`1999`), "director": json.RawMessage(`"Jane Roe"`)},
		},
		{Title: "B", Genre: "Horror", Country: "France", AvgVote: 5.1},
		{Title: "C", Genre: "Romantic comedy", Country: "USA, Comoros", AvgVote: 8},
		{Title: "D", Genre: "Drama", Country: "Italy, France", AvgVote: 0},
		{Title: "E", Genre: "Documentary", Country: "Germany", AvgVote: 9.2},
	}
}

func newTestServer(t testing.TB, options ...httpserver.Options) *httpserver.Server {
	t.Helper()
	base := []httpserver.Options{
		httpserver.WithConfig(testConfig()),
		httpserver.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	server, err := httpserver.New(append(base, options...)...)
	require.NoError(t, err)
	return server
}

func newMovieServer(t testing.TB) *httpserver.Server {
	t.Helper()
	svc := movie.NewUsecase(movie.NewCatalog(testMovies()))
	return newTestServer(t, httpserver.WithMovieService(svc))
}

func makeRequest(server *httpserver.Server, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeError(t testing.TB, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func decodeTitles(t testing.TB, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	titles := make([]string, 0, len(body))
	for _, m := range body {
		titles = append(titles, m["title"].(string))
	}
	return titles
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) Search(ctx context.Context, c movie.Criteria) ([]movie.Movie, error) {
	args := m.Called(ctx, c)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) Count() int {
	args := m.Called()
	return args.Int(0)
}

func newMockService(count int) *MockMovieService {
	svc := new(MockMovieService)
	svc.On("Count").Return(count).Maybe()
	return svc
}

type sentryRecorder struct {
	mu     sync.Mutex
	events []*sentrygo.Event
}

func (r *sentryRecorder) Configure(sentrygo.ClientOptions) {}

func (r *sentryRecorder) SendEvent(event *sentrygo.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *sentryRecorder) Flush(time.Duration) bool { return true }

func (r *sentryRecorder) Events() []*sentrygo.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*sentrygo.Event(nil), r.events...)
}

// captureSentryEvents enables reporting and routes events to an in-memory recorder.
func captureSentryEvents(t *testing.T) *sentryRecorder {
	t.Helper()
	const dsn = "https://public@sentry.example.com/1"
	t.Setenv("APP_ENV", "production")
	t.Setenv("SENTRY_DSN", dsn)

	recorder := new(sentryRecorder)
	require.NoError(t, sentrygo.Init(sentrygo.ClientOptions{Dsn: dsn, Transport: recorder}))
	t.Cleanup(func() { _ = sentrygo.Init(sentrygo.ClientOptions{}) })
	return recorder
}
