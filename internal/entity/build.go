package entity

import "time"

// Build is a completed CI build registered with the service. Promotion is
// always addressed by (Project, Number), the coordinates the remote
// Artifactory knows the build by.
type Build struct {
	ID             ID        `json:"id"`
	Project        string    `json:"project"`
	Number         int       `json:"number"`
	ServerID       string    `json:"server_id"`
	PromotionCount int       `json:"promotion_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
