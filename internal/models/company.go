package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is the canonical employer record stored in MongoDB. name is the
// normalized (trim+lowercase) unique key; DisplayName keeps the submitter's
// original casing and is always present in Aliases.
type Company struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	DisplayName  string             `json:"display_name" bson:"display_name"`
	Logo         string             `json:"logo,omitempty" bson:"logo,omitempty"`
	Industry     string             `json:"industry,omitempty" bson:"industry,omitempty"`
	Size         string             `json:"size,omitempty" bson:"size,omitempty"`
	Aliases      []string           `json:"aliases" bson:"aliases"`
	IsVerified   bool               `json:"is_verified" bson:"is_verified"`
	LinkedinData map[string]string  `json:"linkedin_data,omitempty" bson:"linkedin_data,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// NormalizeCompanyName produces the canonical lookup key for a raw name.
func NormalizeCompanyName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

type ResolveCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type UpdateCompanyRequest struct {
	DisplayName string            `json:"display_name,omitempty" validate:"omitempty,min=1,max=200"`
	Logo        string            `json:"logo,omitempty" validate:"omitempty,url"`
	Industry    string            `json:"industry,omitempty" validate:"omitempty,max=100"`
	Size        string            `json:"size,omitempty" validate:"omitempty,max=50"`
	IsVerified  *bool             `json:"is_verified,omitempty"`
	Aliases     []string          `json:"aliases,omitempty" validate:"omitempty,dive,min=1"`
	Linkedin    map[string]string `json:"linkedin_data,omitempty"`
}
