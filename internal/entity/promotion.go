package entity

import "time"

type TargetStatus string

const (
	StatusReleased   TargetStatus = "Released"
	StatusRolledBack TargetStatus = "Rolled-back"
)

// TargetStatuses lists the statuses offered to operators. "Staged" is
// deliberately not offered even though Artifactory accepts it.
func TargetStatuses() []TargetStatus {
	return []TargetStatus{StatusReleased, StatusRolledBack}
}

// PromotionRequest carries the operator's form input. Immutable once built;
// consumed entirely within one worker run.
type PromotionRequest struct {
	TargetStatus        TargetStatus `json:"target_status" form:"targetStatus"`
	RepositoryKey       string       `json:"repository_key" form:"repositoryKey"`
	Comment             string       `json:"comment" form:"comment"`
	UseCopy             bool         `json:"use_copy" form:"useCopy"`
	IncludeDependencies bool         `json:"include_dependencies" form:"includeDependencies"`
}

func (r PromotionRequest) Validate() error {
	if r.RepositoryKey == "" {
		return ErrInvalid
	}
	switch r.TargetStatus {
	case StatusReleased, StatusRolledBack:
		return nil
	}
	return ErrInvalid
}

type MessageLevel string

const (
	LevelInfo    MessageLevel = "INFO"
	LevelWarning MessageLevel = "WARNING"
	LevelError   MessageLevel = "ERROR"
)

// Message is one entry of the remote service's response body.
type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"message"`
}

// PromotionRecord is the persisted outcome of one worker run.
type PromotionRecord struct {
	ID            ID           `json:"id"`
	TaskID        string       `json:"task_id"`
	Project       string       `json:"project"`
	BuildNumber   int          `json:"build_number"`
	TargetStatus  TargetStatus `json:"target_status"`
	RepositoryKey string       `json:"repository_key"`
	Comment       string       `json:"comment"`
	CiUser        string       `json:"ci_user"`
	DryRunPassed  bool         `json:"dry_run_passed"`
	RealRunPassed bool         `json:"real_run_passed"`
	Succeeded     bool         `json:"succeeded"`
	CreatedAt     time.Time    `json:"created_at"`
}
