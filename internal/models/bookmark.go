package models

import "time"

// Bookmark represents a saved experience (PostgreSQL). The unique pair index
// makes the toggle idempotent at the database level.
type Bookmark struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_experience_bookmark"`
	ExperienceID string    `json:"experience_id" gorm:"index;uniqueIndex:idx_user_experience_bookmark"` // Mongo ObjectID hex
	CreatedAt    time.Time `json:"created_at"`
}
