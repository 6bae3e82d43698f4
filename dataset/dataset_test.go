package dataset_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moviedex/dataset"
	"moviedex/errs"
	"moviedex/movie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEmbeddedLoader(t *testing.T) {
	movies, err := dataset.EmbeddedLoader{}.Load(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, movies)
	assert.Equal(t, "Bugs Bunny's Third Movie: 1001 Rabbit Tales", movies[0].Title)
	assert.Equal(t, "Animation", movies[0].Genre)
	assert.Equal(t, 6.6, movies[0].AvgVote)
	assert.Equal(t, json.RawMessage(`1982`), movies[0].Extra["year"])
	for _, m := range movies {
		assert.NotEmpty(t, m.Title)
		assert.NotEmpty(t, m.Genre)
		assert.NotEmpty(t, m.Country)
	}
}

func TestFileLoader_JSON(t *testing.T) {
	path := writeFile(t, "movies.JSON", `[
		{"title":"A","genre":"Comedy, Drama","country":"USA","avg_vote":7.5,"votes":10},
		{"title":"B","genre":"Horror","country":"France","avg_vote":5}
	]`)

	movies, err := dataset.FileLoader{Path: path}.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "A", movies[0].Title)
	assert.Equal(t, json.RawMessage(`10`), movies[0].Extra["votes"])
	assert.Equal(t, "B", movies[1].Title)
}

func TestFileLoader_CSV(t *testing.T) {
	path := writeFile(t, "movies.csv", strings.Join([]string{
		"filmtv_id,title,year,genre,country,avg_vote",
		`1,A,1999,"Comedy, Drama",USA,7.5`,
		`2,B,2001,Horror,"Italy, France",5.1`,
	}, "\n"))

	movies, err := dataset.FileLoader{Path: path}.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []movie.Movie{
		{
			Title: "A", Genre: "Comedy, Drama", Country: "USA", AvgVote: 7.5,
			Extra: map[string]json.RawMessage{"filmtv_id": json.RawMessage(`"1"`), "year": json.RawMessage(`"1999"`)},
		},
		{
			Title: "B", Genre: "Horror", Country: "Italy, France", AvgVote: 5.1,
			Extra: map[string]json.RawMessage{"filmtv_id": json.RawMessage(`"2"`), "year": json.RawMessage(`"2001"`)},
		},
	}, movies)
}

func TestFileLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "unsupported extension",
			file:    "movies.xml",
			content: "<movies/>",
			wantErr: `unsupported file type ".xml"`,
		},
		{
			name:    "malformed json",
			file:    "movies.json",
			content: `[{"title":`,
			wantErr: "decode json",
		},
		{
			name:    "json record missing a field",
			file:    "movies.json",
			content: `[{"title":"A","genre":"Drama","country":"USA"}]`,
			wantErr: `missing field "avg_vote"`,
		},
		{
			name:    "csv missing column",
			file:    "movies.csv",
			content: "title,genre,avg_vote\nA,Drama,7",
			wantErr: `missing required column "country"`,
		},
		{
			name:    "csv bad vote",
			file:    "movies.csv",
			content: "title,genre,country,avg_vote\nA,Drama,USA,7\nB,Drama,USA,high",
			wantErr: `line 3: application error: code=invalid message=dataset: avg_vote "high" is not a number`,
		},
		{
			name:    "csv short row",
			file:    "movies.csv",
			content: "title,genre,country,avg_vote\nA,Drama",
			wantErr: "expected 4 columns, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			_, err := dataset.FileLoader{Path: path}.Load(context.Background())

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := dataset.FileLoader{Path: filepath.Join(t.TempDir(), "nope.json")}.Load(context.Background())

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeCSV_ErrorCode(t *testing.T) {
	_, err := dataset.DecodeCSV(strings.NewReader("title\nA"))

	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}
