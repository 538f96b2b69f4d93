package repository

import (
	"context"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"gorm.io/gorm"
)

type BuildRepository interface {
	Create(ctx context.Context, build *entity.Build) (*entity.Build, error)
	GetByCoordinates(ctx context.Context, project string, number int) (*entity.Build, error)
	List(ctx context.Context) ([]*entity.Build, error)
	IncrementPromotions(ctx context.Context, id entity.ID) error
}

type buildRepositoryImpl struct {
	db *gorm.DB
}

func NewBuildRepository(db *gorm.DB) BuildRepository {
	return &buildRepositoryImpl{db: db}
}

// Create registers a completed build.
func (r *buildRepositoryImpl) Create(ctx context.Context, build *entity.Build) (*entity.Build, error) {
	var model Build
	model.FromEntity(build)
	if err := gorm.G[Build](r.db).Create(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// GetByCoordinates finds a build by project name and build number.
func (r *buildRepositoryImpl) GetByCoordinates(ctx context.Context, project string, number int) (*entity.Build, error) {
	found, err := gorm.G[Build](r.db).Where("project = ? AND number = ?", project, number).First(ctx)
	if err != nil {
		return nil, err
	}
	return found.ToEntity(), nil
}

// List returns all registered builds.
func (r *buildRepositoryImpl) List(ctx context.Context) ([]*entity.Build, error) {
	founds, err := gorm.G[Build](r.db).Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.Build, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}

// IncrementPromotions bumps the build's promotion counter.
func (r *buildRepositoryImpl) IncrementPromotions(ctx context.Context, id entity.ID) error {
	_, err := gorm.G[Build](r.db).
		Where("id = ?", id.Uint()).
		Update(ctx, "promotion_count", gorm.Expr("promotion_count + 1"))
	return err
}
