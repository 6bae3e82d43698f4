// Package dataset reads movie records from the built-in dataset or from
// JSON and CSV files. Every loader is meant to be called once at startup.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"moviedex/errs"
	"moviedex/movie"
)

//go:embed movies.json
var embeddedMovies []byte

// EmbeddedLoader serves the dataset compiled into the binary.
type EmbeddedLoader struct{}

func (EmbeddedLoader) Load(_ context.Context) ([]movie.Movie, error) {
	return Decode(bytes.NewReader(embeddedMovies))
}

// FileLoader reads a .json or .csv dataset from disk.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(_ context.Context) ([]movie.Movie, error) {
	file, err := os.Open(l.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(l.Path)) {
	case ".json":
		return Decode(file)
	case ".csv":
		return DecodeCSV(file)
	default:
		return nil, errs.Errorf(errs.EINVALID, "dataset: unsupported file type %q", filepath.Ext(l.Path))
	}
}

// Decode reads a JSON array of movie objects.
func Decode(r io.Reader) ([]movie.Movie, error) {
	var movies []movie.Movie
	if err := json.NewDecoder(r).Decode(&movies); err != nil {
		return nil, fmt.Errorf("dataset: decode json: %w", err)
	}
	return movies, nil
}

// DecodeCSV reads a CSV file with a header row. The title, genre, country
// and avg_vote columns are required; every other column is kept as a
// string field under its header name.
func DecodeCSV(r io.Reader) ([]movie.Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var movies []movie.Movie
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read csv: %w", err)
		}

		m, err := parseRecord(header, record)
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		movies = append(movies, m)
	}

	return movies, nil
}

func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		seen[name] = true
	}
	for _, name := range []string{movie.FieldTitle, movie.FieldGenre, movie.FieldCountry, movie.FieldAvgVote} {
		if !seen[name] {
			return errs.Errorf(errs.EINVALID, "dataset: missing required column %q in csv header", name)
		}
	}
	return nil
}

func parseRecord(header, record []string) (movie.Movie, error) {
	if len(record) != len(header) {
		return movie.Movie{}, errs.Errorf(errs.EINVALID, "dataset: expected %d columns, got %d", len(header), len(record))
	}

	var m movie.Movie
	for i, name := range header {
		value := strings.TrimSpace(record[i])
		switch name {
		case movie.FieldTitle:
			m.Title = value
		case movie.FieldGenre:
			m.Genre = value
		case movie.FieldCountry:
			m.Country = value
		case movie.FieldAvgVote:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return movie.Movie{}, errs.Errorf(errs.EINVALID, "dataset: avg_vote %q is not a number", value)
			}
			m.AvgVote = v
		default:
			if name == "" {
				continue
			}
			raw, err := json.Marshal(value)
			if err != nil {
				return movie.Movie{}, err
			}
			if m.Extra == nil {
				m.Extra = make(map[string]json.RawMessage)
			}
			m.Extra[name] = raw
		}
	}
	return m, nil
}
