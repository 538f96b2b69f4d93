package usecase

import (
	"context"
	"time"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/promote"
	"github.com/ngrobisa/artifactory-plugin/internal/repository"
	"github.com/samber/do"
)

// PromotionView is what the operator's next page load should show: the
// submission form while the action is idle, the live progress log while a
// task is in flight.
type PromotionView struct {
	View           promote.View          `json:"view"`
	Statuses       []entity.TargetStatus `json:"statuses,omitempty"`
	Repositories   []string              `json:"repositories,omitempty"`
	LastRepository string                `json:"last_repository,omitempty"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	Log            []string              `json:"log,omitempty"`
}

type GetPromotionViewUsecase interface {
	Execute(ctx context.Context, project string, number int) (*PromotionView, error)
}

type getPromotionViewUsecaseImpl struct {
	resolver            actionResolver
	promotionRepository repository.PromotionRepository
}

// Execute implements GetPromotionViewUsecase.
func (u *getPromotionViewUsecaseImpl) Execute(ctx context.Context, project string, number int) (*PromotionView, error) {
	build, action, err := u.resolver.resolve(ctx, project, number)
	if err != nil {
		return nil, err
	}
	if startedAt, lines, running := action.Progress(); running {
		return &PromotionView{View: promote.ViewProgress, StartedAt: &startedAt, Log: lines}, nil
	}
	last, err := u.promotionRepository.LastRepositoryKey(ctx, build.Project)
	if err != nil {
		return nil, err
	}
	return &PromotionView{
		View:           promote.ViewForm,
		Statuses:       action.TargetStatuses(),
		Repositories:   action.TargetRepositories(),
		LastRepository: last,
	}, nil
}

func NewGetPromotionViewUsecase(injector *do.Injector) (GetPromotionViewUsecase, error) {
	return &getPromotionViewUsecaseImpl{
		resolver:            newActionResolver(injector),
		promotionRepository: do.MustInvoke[repository.PromotionRepository](injector),
	}, nil
}
