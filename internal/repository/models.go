package repository

import (
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"gorm.io/gorm"
)

type Build struct {
	gorm.Model
	Project        string `gorm:"index:idx_build_coords,unique"`
	Number         int    `gorm:"index:idx_build_coords,unique"`
	ServerID       string
	PromotionCount int
}

func (b *Build) ToEntity() *entity.Build {
	return &entity.Build{
		ID:             entity.NewID(b.ID),
		Project:        b.Project,
		Number:         b.Number,
		ServerID:       b.ServerID,
		PromotionCount: b.PromotionCount,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func (b *Build) FromEntity(e *entity.Build) {
	if e.ID != "" {
		b.ID = e.ID.Uint()
	}
	b.Project = e.Project
	b.Number = e.Number
	b.ServerID = e.ServerID
	b.PromotionCount = e.PromotionCount
}

type Promotion struct {
	gorm.Model
	TaskID        string
	Project       string `gorm:"index"`
	BuildNumber   int
	TargetStatus  string
	RepositoryKey string
	Comment       string
	CiUser        string
	DryRunPassed  bool
	RealRunPassed bool
	Succeeded     bool
}

func (p *Promotion) ToEntity() *entity.PromotionRecord {
	return &entity.PromotionRecord{
		ID:            entity.NewID(p.ID),
		TaskID:        p.TaskID,
		Project:       p.Project,
		BuildNumber:   p.BuildNumber,
		TargetStatus:  entity.TargetStatus(p.TargetStatus),
		RepositoryKey: p.RepositoryKey,
		Comment:       p.Comment,
		CiUser:        p.CiUser,
		DryRunPassed:  p.DryRunPassed,
		RealRunPassed: p.RealRunPassed,
		Succeeded:     p.Succeeded,
		CreatedAt:     p.CreatedAt,
	}
}

func (p *Promotion) FromEntity(e *entity.PromotionRecord) {
	if e.ID != "" {
		p.ID = e.ID.Uint()
	}
	p.TaskID = e.TaskID
	p.Project = e.Project
	p.BuildNumber = e.BuildNumber
	p.TargetStatus = string(e.TargetStatus)
	p.RepositoryKey = e.RepositoryKey
	p.Comment = e.Comment
	p.CiUser = e.CiUser
	p.DryRunPassed = e.DryRunPassed
	p.RealRunPassed = e.RealRunPassed
	p.Succeeded = e.Succeeded
}
