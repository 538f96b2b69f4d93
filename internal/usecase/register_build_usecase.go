package usecase

import (
	"context"
	"errors"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/registry"
	"github.com/ngrobisa/artifactory-plugin/internal/repository"
	"github.com/samber/do"
)

type RegisterBuildUsecase interface {
	Execute(ctx context.Context, build *entity.Build) (*entity.Build, error)
}

type registerBuildUsecaseImpl struct {
	registry        *registry.Registry
	buildRepository repository.BuildRepository
}

// Execute implements RegisterBuildUsecase.
func (u *registerBuildUsecaseImpl) Execute(ctx context.Context, build *entity.Build) (*entity.Build, error) {
	if build.Project == "" || build.Number <= 0 {
		return nil, entity.ErrInvalid
	}
	if _, err := u.registry.Server(build.ServerID); err != nil {
		return nil, entity.ErrInvalid
	}
	_, err := u.buildRepository.GetByCoordinates(ctx, build.Project, build.Number)
	if err == nil {
		return nil, entity.ErrConflict
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, entity.ErrInternal
	}
	return u.buildRepository.Create(ctx, build)
}

func NewRegisterBuildUsecase(injector *do.Injector) (RegisterBuildUsecase, error) {
	return &registerBuildUsecaseImpl{
		registry:        do.MustInvoke[*registry.Registry](injector),
		buildRepository: do.MustInvoke[repository.BuildRepository](injector),
	}, nil
}
