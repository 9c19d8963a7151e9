package models

import "time"

// Notification types.
const (
	NotifExperienceFlagged   = "experience_flagged"
	NotifExperienceUnflagged = "experience_unflagged"
	NotifExperienceApproved  = "experience_approved"
	NotifExperienceRejected  = "experience_rejected"
	NotifAdminMessage        = "admin_message"
	NotifRoleChanged         = "role_changed"
	NotifCompanyRequest      = "company_creation_request"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification is a single-recipient row (PostgreSQL). Broadcasts create one
// row per recipient; there is no shared fan-out row.
type Notification struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	RecipientID       uint       `json:"recipient_id" gorm:"index"`
	Type              string     `json:"type" gorm:"size:40;index"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	RelatedExperience string     `json:"related_experience,omitempty"` // Mongo ObjectID hex
	RelatedComment    uint       `json:"related_comment,omitempty"`
	FlagReason        string     `json:"flag_reason,omitempty"`
	Priority          string     `json:"priority" gorm:"size:10;default:'medium'"`
	IsRead            bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	Metadata          string     `json:"metadata,omitempty"` // free-form JSON blob
	CreatedAt         time.Time  `json:"created_at" gorm:"index"`
}

type AnnounceRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}
