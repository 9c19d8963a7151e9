package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
)

// Moderation actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionFlag    = "flag"
	ActionUnflag  = "unflag"
)

// ModerationService is the admin-driven state machine over an experience's
// publish/flag status. Every transition emits exactly one notification to
// the owning user; notification failure never rolls back the transition.
type ModerationService struct {
	experiences repositories.ExperienceRepository
	notifier    NotificationSender
}

func NewModerationService(experiences repositories.ExperienceRepository, notifier NotificationSender) *ModerationService {
	return &ModerationService{experiences: experiences, notifier: notifier}
}

// Moderate applies one admin action. Invalid actions and missing ids are
// rejected before any mutation; precondition violations return ErrConflict
// with the specific precondition in the message.
func (s *ModerationService) Moderate(ctx context.Context, id, action, reason, details, moderator string) (*models.Experience, error) {
	switch action {
	case ActionApprove, ActionReject, ActionFlag, ActionUnflag:
	default:
		return nil, fmt.Errorf("invalid moderation action %q", action)
	}

	exp, err := s.experiences.GetExperienceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var spec NotificationSpec
	switch action {
	case ActionApprove:
		if err := s.experiences.SetPublished(ctx, id, true); err != nil {
			return nil, err
		}
		if _, err := s.experiences.ClearFlagged(ctx, id); err != nil {
			return nil, err
		}
		spec = NotificationSpec{
			Type:     models.NotifExperienceApproved,
			Title:    "Experience approved",
			Message:  fmt.Sprintf("Your %s experience was approved and is now published.", exp.CompanyInfo.CompanyName),
			Priority: models.PriorityMedium,
		}

	case ActionReject:
		if err := s.experiences.SetPublished(ctx, id, false); err != nil {
			return nil, err
		}
		spec = NotificationSpec{
			Type:       models.NotifExperienceRejected,
			Title:      "Experience unpublished",
			Message:    fmt.Sprintf("Your %s experience was unpublished by a moderator.", exp.CompanyInfo.CompanyName),
			FlagReason: reason,
			Priority:   models.PriorityHigh,
		}

	case ActionFlag:
		flagged, err := s.experiences.SetFlagged(ctx, id, reason, details, moderator)
		if err != nil {
			return nil, err
		}
		if !flagged {
			return nil, fmt.Errorf("%w: already flagged", repositories.ErrConflict)
		}
		spec = NotificationSpec{
			Type:       models.NotifExperienceFlagged,
			Title:      "Experience flagged",
			Message:    fmt.Sprintf("Your %s experience was flagged: %s", exp.CompanyInfo.CompanyName, reason),
			FlagReason: reason,
			Priority:   models.PriorityUrgent,
		}

	case ActionUnflag:
		cleared, err := s.experiences.ClearFlagged(ctx, id)
		if err != nil {
			return nil, err
		}
		if !cleared {
			return nil, fmt.Errorf("%w: not flagged", repositories.ErrConflict)
		}
		spec = NotificationSpec{
			Type:     models.NotifExperienceUnflagged,
			Title:    "Flag removed",
			Message:  fmt.Sprintf("The flag on your %s experience was removed.", exp.CompanyInfo.CompanyName),
			Priority: models.PriorityMedium,
		}
	}

	spec.RecipientID = exp.UserID
	spec.RelatedExperience = id
	if _, err := s.notifier.Create(spec); err != nil {
		log.Printf("Moderation notification failed for experience %s: %v", id, err)
	}

	return s.experiences.GetExperienceByID(ctx, id)
}

// Report records one user's report. Each user may report an experience at
// most once; a duplicate returns ErrConflict and leaves the count untouched.
// When the count reaches the per-record threshold the experience is flagged
// by the system exactly once, with the same urgent notification an admin
// flag would produce.
func (s *ModerationService) Report(ctx context.Context, id string, reporterID uint, reason string) (int, bool, error) {
	exp, err := s.experiences.GetExperienceByID(ctx, id)
	if err != nil {
		return 0, false, err
	}

	count, err := s.experiences.AddReport(ctx, id, models.Report{
		UserID:     reporterID,
		Reason:     reason,
		ReportedAt: time.Now(),
	})
	if err != nil {
		if err == repositories.ErrConflict {
			return 0, false, fmt.Errorf("%w: already reported", repositories.ErrConflict)
		}
		return 0, false, err
	}

	threshold := exp.ReportThreshold
	if threshold <= 0 {
		threshold = models.DefaultReportThreshold
	}
	if count < threshold {
		return count, false, nil
	}

	// The flagged:false guard in SetFlagged makes the escalation fire at
	// most once even when reports race past the threshold.
	flagged, err := s.experiences.SetFlagged(ctx, id,
		"Multiple user reports",
		fmt.Sprintf("Auto-flagged after %d reports", count),
		models.FlaggedBySystem)
	if err != nil {
		return count, false, err
	}
	if !flagged {
		return count, false, nil
	}

	if _, err := s.notifier.Create(NotificationSpec{
		RecipientID:       exp.UserID,
		Type:              models.NotifExperienceFlagged,
		Title:             "Experience flagged",
		Message:           fmt.Sprintf("Your %s experience was flagged after multiple reports.", exp.CompanyInfo.CompanyName),
		RelatedExperience: id,
		FlagReason:        "Multiple user reports",
		Priority:          models.PriorityUrgent,
	}); err != nil {
		log.Printf("Auto-flag notification failed for experience %s: %v", id, err)
	}
	return count, true, nil
}
