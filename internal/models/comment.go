package models

import "gorm.io/gorm"

// Comment represents a comment on an experience (PostgreSQL). Comments are
// deleted in cascade when their experience is deleted.
type Comment struct {
	gorm.Model
	ExperienceID string `json:"experience_id" gorm:"index"` // Mongo ObjectID hex
	UserID       uint   `json:"user_id" gorm:"index"`
	Content      string `json:"content"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
