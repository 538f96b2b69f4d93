package usecase

import (
	"context"
	"errors"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/promote"
	"github.com/ngrobisa/artifactory-plugin/internal/registry"
	"github.com/ngrobisa/artifactory-plugin/internal/repository"
	"github.com/samber/do"
)

// actionResolver maps build coordinates to the build's promotion action.
type actionResolver struct {
	buildRepository repository.BuildRepository
	registry        *registry.Registry
	manager         *promote.Manager
}

func newActionResolver(injector *do.Injector) actionResolver {
	return actionResolver{
		buildRepository: do.MustInvoke[repository.BuildRepository](injector),
		registry:        do.MustInvoke[*registry.Registry](injector),
		manager:         do.MustInvoke[*promote.Manager](injector),
	}
}

func (r actionResolver) resolve(ctx context.Context, project string, number int) (*entity.Build, *promote.Action, error) {
	build, err := r.buildRepository.GetByCoordinates(ctx, project, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, entity.ErrNotFound
		}
		return nil, nil, err
	}
	server, err := r.registry.Server(build.ServerID)
	if err != nil {
		return nil, nil, err
	}
	return build, r.manager.ActionFor(*build, server), nil
}
