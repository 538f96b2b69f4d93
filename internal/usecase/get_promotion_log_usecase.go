package usecase

import (
	"context"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/repository"
	"github.com/samber/do"
)

// PromotionLog pairs the latest task's progress lines with the build's
// persisted promotion history.
type PromotionLog struct {
	Running bool                      `json:"running"`
	Log     []string                  `json:"log"`
	History []*entity.PromotionRecord `json:"history"`
}

type GetPromotionLogUsecase interface {
	Execute(ctx context.Context, project string, number int) (*PromotionLog, error)
}

type getPromotionLogUsecaseImpl struct {
	resolver            actionResolver
	promotionRepository repository.PromotionRepository
}

// Execute implements GetPromotionLogUsecase.
func (u *getPromotionLogUsecaseImpl) Execute(ctx context.Context, project string, number int) (*PromotionLog, error) {
	build, action, err := u.resolver.resolve(ctx, project, number)
	if err != nil {
		return nil, err
	}
	history, err := u.promotionRepository.ListByBuild(ctx, build.Project, build.Number)
	if err != nil {
		return nil, err
	}
	return &PromotionLog{
		Running: action.Running(),
		Log:     action.Log(),
		History: history,
	}, nil
}

func NewGetPromotionLogUsecase(injector *do.Injector) (GetPromotionLogUsecase, error) {
	return &getPromotionLogUsecaseImpl{
		resolver:            newActionResolver(injector),
		promotionRepository: do.MustInvoke[repository.PromotionRepository](injector),
	}, nil
}
