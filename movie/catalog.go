package movie

import (
	"context"
	"fmt"
)

// Loader reads the full dataset from its source. It is called once at
// startup; the result is frozen into a Catalog.
type Loader interface {
	Load(ctx context.Context) ([]Movie, error)
}

// Catalog is the immutable in-memory dataset. It is safe for concurrent use.
type Catalog struct {
	movies []Movie
}

// NewCatalog copies movies into a new catalog, keeping their order.
func NewCatalog(movies []Movie) *Catalog {
	cp := make([]Movie, len(movies))
	copy(cp, movies)
	return &Catalog{movies: cp}
}

// LoadCatalog reads every record from l. An empty dataset is an error.
func LoadCatalog(ctx context.Context, l Loader) (*Catalog, error) {
	movies, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if len(movies) == 0 {
		return nil, ErrEmptyDataset
	}
	return NewCatalog(movies), nil
}

// All returns a copy of every record in dataset order.
func (c *Catalog) All() []Movie {
	return NewCatalog(c.movies).movies
}

func (c *Catalog) Len() int {
	return len(c.movies)
}
