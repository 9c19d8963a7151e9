package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Final result of the whole interview process.
const (
	ResultSelected = "selected"
	ResultRejected = "rejected"
	ResultPending  = "pending"
	ResultWithdrew = "withdrew"
)

// FlaggedBySystem marks flags raised by report-count escalation rather than
// an admin.
const FlaggedBySystem = "system"

// DefaultReportThreshold is the report count at which an experience is
// auto-flagged. Admins can override it per record.
const DefaultReportThreshold = 5

// CompanyInfo embeds the position details plus a denormalized copy of the
// company name/logo. CompanyID is the weak reference into the company
// directory; name and logo must be rewritten whenever the canonical record
// changes.
type CompanyInfo struct {
	CompanyID    primitive.ObjectID `json:"company_id" bson:"company_id"`
	CompanyName  string             `json:"company_name" bson:"company_name"`
	CompanyLogo  string             `json:"company_logo,omitempty" bson:"company_logo,omitempty"`
	Role         string             `json:"role" bson:"role"`
	Department   string             `json:"department,omitempty" bson:"department,omitempty"`
	Type         string             `json:"type" bson:"type"` // internship, full-time, ppo
	Location     string             `json:"location,omitempty" bson:"location,omitempty"`
	AppliedAt    *time.Time         `json:"applied_at,omitempty" bson:"applied_at,omitempty"`
	Compensation string             `json:"compensation,omitempty" bson:"compensation,omitempty"`
}

// Round is one stage of the interview process.
type Round struct {
	Number    int      `json:"number" bson:"number"`
	Type      string   `json:"type" bson:"type"` // oa, technical, system-design, hr, managerial
	Duration  int      `json:"duration,omitempty" bson:"duration,omitempty"` // minutes
	Questions []string `json:"questions,omitempty" bson:"questions,omitempty"`
	Skills    []string `json:"skills,omitempty" bson:"skills,omitempty"`
	Result    string   `json:"result,omitempty" bson:"result,omitempty"` // cleared, rejected, pending
}

// Report is one user's abuse report against an experience.
type Report struct {
	UserID     uint      `json:"user_id" bson:"user_id"`
	Reason     string    `json:"reason" bson:"reason"`
	ReportedAt time.Time `json:"reported_at" bson:"reported_at"`
}

// Experience is one user's interview account, stored in MongoDB.
// Upvotes/Downvotes/UniqueViews are user-id sets mutated only through atomic
// $addToSet/$pull updates, never read-modify-write.
type Experience struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	CompanyInfo   CompanyInfo        `json:"company_info" bson:"company_info"`
	Rounds        []Round            `json:"rounds" bson:"rounds"`
	OverallRating int                `json:"overall_rating" bson:"overall_rating"`
	FinalResult   string             `json:"final_result" bson:"final_result"`

	IsPublished bool       `json:"is_published" bson:"is_published"`
	Flagged     bool       `json:"flagged" bson:"flagged"`
	FlagReason  string     `json:"flag_reason,omitempty" bson:"flag_reason,omitempty"`
	FlagDetails string     `json:"flag_details,omitempty" bson:"flag_details,omitempty"`
	FlaggedBy   string     `json:"flagged_by,omitempty" bson:"flagged_by,omitempty"`
	FlaggedAt   *time.Time `json:"flagged_at,omitempty" bson:"flagged_at,omitempty"`

	Upvotes     []uint `json:"upvotes" bson:"upvotes"`
	Downvotes   []uint `json:"downvotes" bson:"downvotes"`
	Views       int64  `json:"views" bson:"views"`
	UniqueViews []uint `json:"-" bson:"unique_views"`

	Reports         []Report `json:"-" bson:"reports"`
	ReportThreshold int      `json:"report_threshold" bson:"report_threshold"`

	Tags      []string  `json:"tags" bson:"tags"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NumberRounds assigns 1-based round numbers in submission order.
func NumberRounds(rounds []Round) {
	for i := range rounds {
		rounds[i].Number = i + 1
	}
}

// DeriveTags builds the search tags from company, role and round skills.
// Tags are lowercased and deduplicated, preserving first-seen order.
func DeriveTags(info CompanyInfo, rounds []Round) []string {
	seen := make(map[string]bool)
	var tags []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		tags = append(tags, s)
	}

	add(info.CompanyName)
	add(info.Role)
	add(info.Type)
	for _, r := range rounds {
		for _, skill := range r.Skills {
			add(skill)
		}
	}
	return tags
}

type RoundRequest struct {
	Type      string   `json:"type" validate:"required,oneof=oa technical system-design hr managerial"`
	Duration  int      `json:"duration,omitempty" validate:"omitempty,min=1,max=600"`
	Questions []string `json:"questions,omitempty" validate:"omitempty,dive,min=1"`
	Skills    []string `json:"skills,omitempty" validate:"omitempty,dive,min=1"`
	Result    string   `json:"result,omitempty" validate:"omitempty,oneof=cleared rejected pending"`
}

type CreateExperienceRequest struct {
	CompanyName   string         `json:"company_name" validate:"required,min=1,max=200"`
	Role          string         `json:"role" validate:"required,min=1,max=100"`
	Department    string         `json:"department,omitempty" validate:"omitempty,max=100"`
	Type          string         `json:"type" validate:"required,oneof=internship full-time ppo"`
	Location      string         `json:"location,omitempty" validate:"omitempty,max=100"`
	Compensation  string         `json:"compensation,omitempty" validate:"omitempty,max=100"`
	Rounds        []RoundRequest `json:"rounds" validate:"required,min=1,dive"`
	OverallRating int            `json:"overall_rating" validate:"required,min=1,max=5"`
	FinalResult   string         `json:"final_result" validate:"required,oneof=selected rejected pending withdrew"`
	IsPublished   bool           `json:"is_published"`
}

type UpdateExperienceRequest struct {
	Role          string         `json:"role,omitempty" validate:"omitempty,min=1,max=100"`
	Department    string         `json:"department,omitempty" validate:"omitempty,max=100"`
	Location      string         `json:"location,omitempty" validate:"omitempty,max=100"`
	Compensation  string         `json:"compensation,omitempty" validate:"omitempty,max=100"`
	Rounds        []RoundRequest `json:"rounds,omitempty" validate:"omitempty,min=1,dive"`
	OverallRating int            `json:"overall_rating,omitempty" validate:"omitempty,min=1,max=5"`
	FinalResult   string         `json:"final_result,omitempty" validate:"omitempty,oneof=selected rejected pending withdrew"`
	IsPublished   *bool          `json:"is_published,omitempty"`
}

type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=upvote downvote"`
}

type ReportRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}
