package usecase

import (
	"context"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/repository"
	"github.com/samber/do"
)

type ListBuildsUsecase interface {
	Execute(ctx context.Context) ([]*entity.Build, error)
}

type listBuildsUsecaseImpl struct {
	buildRepository repository.BuildRepository
}

// Execute implements ListBuildsUsecase.
func (u *listBuildsUsecaseImpl) Execute(ctx context.Context) ([]*entity.Build, error) {
	return u.buildRepository.List(ctx)
}

func NewListBuildsUsecase(injector *do.Injector) (ListBuildsUsecase, error) {
	return &listBuildsUsecaseImpl{
		buildRepository: do.MustInvoke[repository.BuildRepository](injector),
	}, nil
}
