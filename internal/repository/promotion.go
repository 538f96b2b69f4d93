package repository

import (
	"context"
	"errors"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	Create(ctx context.Context, rec *entity.PromotionRecord) (*entity.PromotionRecord, error)
	ListByBuild(ctx context.Context, project string, number int) ([]*entity.PromotionRecord, error)
	LastRepositoryKey(ctx context.Context, project string) (string, error)
}

type promotionRepositoryImpl struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepositoryImpl{db: db}
}

// Create appends a promotion record.
func (r *promotionRepositoryImpl) Create(ctx context.Context, rec *entity.PromotionRecord) (*entity.PromotionRecord, error) {
	var model Promotion
	model.FromEntity(rec)
	if err := gorm.G[Promotion](r.db).Create(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// ListByBuild lists promotion records for one build, newest first.
func (r *promotionRepositoryImpl) ListByBuild(ctx context.Context, project string, number int) ([]*entity.PromotionRecord, error) {
	founds, err := gorm.G[Promotion](r.db).
		Where("project = ? AND build_number = ?", project, number).
		Order("id DESC").
		Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.PromotionRecord, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}

// LastRepositoryKey returns the repository selected by the project's latest
// promotion, to preselect it in the form. Empty when none exists.
func (r *promotionRepositoryImpl) LastRepositoryKey(ctx context.Context, project string) (string, error) {
	found, err := gorm.G[Promotion](r.db).
		Where("project = ?", project).
		Order("id DESC").
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return found.RepositoryKey, nil
}
