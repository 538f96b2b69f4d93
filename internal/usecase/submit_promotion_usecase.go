package usecase

import (
	"context"

	"github.com/ngrobisa/artifactory-plugin/internal/auth"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/samber/do"
)

type SubmitPromotionUsecase interface {
	Execute(ctx context.Context, project string, number int, req entity.PromotionRequest, user string) (string, error)
}

type submitPromotionUsecaseImpl struct {
	resolver   actionResolver
	authorizer *auth.Authorizer
}

// Execute implements SubmitPromotionUsecase. The capability check runs
// before any state is touched; the returned task id identifies the
// launched worker. The call does not wait for the worker.
func (u *submitPromotionUsecaseImpl) Execute(ctx context.Context, project string, number int, req entity.PromotionRequest, user string) (string, error) {
	if err := u.authorizer.CheckPermission(user); err != nil {
		return "", err
	}
	_, action, err := u.resolver.resolve(ctx, project, number)
	if err != nil {
		return "", err
	}
	return action.Submit(req, user)
}

func NewSubmitPromotionUsecase(injector *do.Injector) (SubmitPromotionUsecase, error) {
	return &submitPromotionUsecaseImpl{
		resolver:   newActionResolver(injector),
		authorizer: do.MustInvoke[*auth.Authorizer](injector),
	}, nil
}
