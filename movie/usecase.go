package movie

import "context"

type Service interface {
	Search(ctx context.Context, c Criteria) ([]Movie, error)
	Count() int
}

type Usecase struct {
	catalog *Catalog
}

func NewUsecase(catalog *Catalog) *Usecase {
	return &Usecase{catalog: catalog}
}

func (uc *Usecase) Search(_ context.Context, c Criteria) ([]Movie, error) {
	return Filter(uc.catalog.movies, c), nil
}

func (uc *Usecase) Count() int {
	return uc.catalog.Len()
}
