package repository

import (
	"context"
	"fmt"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
)

// PromotionRecorder persists a finished promotion run: it appends the
// record and bumps the build's promotion counter.
type PromotionRecorder struct {
	builds     BuildRepository
	promotions PromotionRepository
}

func NewPromotionRecorder(builds BuildRepository, promotions PromotionRepository) *PromotionRecorder {
	return &PromotionRecorder{builds: builds, promotions: promotions}
}

func (r *PromotionRecorder) Save(ctx context.Context, build entity.Build, rec entity.PromotionRecord) error {
	if _, err := r.promotions.Create(ctx, &rec); err != nil {
		return fmt.Errorf("create promotion record: %w", err)
	}
	if err := r.builds.IncrementPromotions(ctx, build.ID); err != nil {
		return fmt.Errorf("update build record: %w", err)
	}
	return nil
}
