package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"moviedex/movie"

	"gorm.io/gorm"
)

const seedBatchSize = 500

// MovieModel represents the database model for movies.
// Fields outside the four searchable ones live in the extra JSONB column.
type MovieModel struct {
	ID      uint    `gorm:"primaryKey"`
	Title   string  `gorm:"not null"`
	Genre   string  `gorm:"not null;default:''"`
	Country string  `gorm:"not null;default:''"`
	AvgVote float64 `gorm:"column:avg_vote;not null"`
	Extra   string  `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// MovieRepository snapshots the movies table into memory and rewrites
// it for seeding. The server never queries it per request.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Load implements movie.Loader. Rows come back in insertion order.
func (r *MovieRepository) Load(ctx context.Context) ([]movie.Movie, error) {
	var models []MovieModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		m, err := model.toMovie()
		if err != nil {
			return nil, fmt.Errorf("movie %d: %w", model.ID, err)
		}
		movies[i] = m
	}
	return movies, nil
}

// ReplaceAll swaps the whole table for movies in a single transaction.
func (r *MovieRepository) ReplaceAll(ctx context.Context, movies []movie.Movie) error {
	models := make([]MovieModel, len(movies))
	for i, m := range movies {
		model, err := newMovieModel(m)
		if err != nil {
			return fmt.Errorf("movie %q: %w", m.Title, err)
		}
		models[i] = model
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("TRUNCATE TABLE movies RESTART IDENTITY").Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(models, seedBatchSize).Error
	})
}

func newMovieModel(m movie.Movie) (MovieModel, error) {
	extra := []byte("{}")
	if len(m.Extra) > 0 {
		var err error
		if extra, err = json.Marshal(m.Extra); err != nil {
			return MovieModel{}, err
		}
	}
	return MovieModel{
		Title:   m.Title,
		Genre:   m.Genre,
		Country: m.Country,
		AvgVote: m.AvgVote,
		Extra:   string(extra),
	}, nil
}

func (model MovieModel) toMovie() (movie.Movie, error) {
	m := movie.Movie{
		Title:   model.Title,
		Genre:   model.Genre,
		Country: model.Country,
		AvgVote: model.AvgVote,
	}
	if model.Extra == "" {
		return m, nil
	}

	var extra map[string]json.RawMessage
	if err := json.Unmarshal([]byte(model.Extra), &extra); err != nil {
		return movie.Movie{}, err
	}
	if len(extra) > 0 {
		m.Extra = extra
	}
	return m, nil
}
