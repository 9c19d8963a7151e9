package services

import (
	"context"
	"log"
	"time"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
)

// ReadRetention is how long a notification is kept after being marked read.
// Unread notifications are retained indefinitely.
const ReadRetention = 30 * 24 * time.Hour

// NotificationSpec describes one notification to create.
type NotificationSpec struct {
	RecipientID       uint
	Type              string
	Title             string
	Message           string
	RelatedExperience string
	RelatedComment    uint
	FlagReason        string
	Priority          string
	Metadata          string
}

// NotificationSender is the slice of Notifier that event producers
// (moderation, role changes) depend on.
type NotificationSender interface {
	Create(spec NotificationSpec) (*models.Notification, error)
}

// Notifier creates per-recipient notification rows and runs the retention
// sweep.
type Notifier struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	now           func() time.Time
}

func NewNotifier(notifications repositories.NotificationRepository, users repositories.UserRepository) *Notifier {
	return &Notifier{notifications: notifications, users: users, now: time.Now}
}

// Create persists one notification. Returns (nil, nil) when the recipient
// has browser notifications disabled; the opt-out is a no-op, not an error.
func (s *Notifier) Create(spec NotificationSpec) (*models.Notification, error) {
	enabled, err := s.users.GetNotificationPreference(spec.RecipientID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}

	if spec.Priority == "" {
		spec.Priority = models.PriorityMedium
	}
	notification := &models.Notification{
		RecipientID:       spec.RecipientID,
		Type:              spec.Type,
		Title:             spec.Title,
		Message:           spec.Message,
		RelatedExperience: spec.RelatedExperience,
		RelatedComment:    spec.RelatedComment,
		FlagReason:        spec.FlagReason,
		Priority:          spec.Priority,
		Metadata:          spec.Metadata,
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Announce fans a broadcast out as one independent row per user in a single
// batch insert. Fire-and-forget: there is no per-recipient retry and no
// idempotency key, so retrying a failed announcement can duplicate rows.
func (s *Notifier) Announce(title, message string) (int, error) {
	ids, err := s.users.GetAllUserIDs()
	if err != nil {
		return 0, err
	}

	notifications := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		notifications = append(notifications, models.Notification{
			RecipientID: id,
			Type:        models.NotifAdminMessage,
			Title:       title,
			Message:     message,
			Priority:    models.PriorityMedium,
		})
	}
	if err := s.notifications.CreateBatch(notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}

// MarkRead transitions unread to read. Marking an already-read notification
// again is a no-op, not an error.
func (s *Notifier) MarkRead(id uint) error {
	if _, err := s.notifications.GetByID(id); err != nil {
		return err
	}
	return s.notifications.MarkAsRead(id, s.now())
}

// MarkAllRead marks every unread notification of the user and reports how
// many rows changed.
func (s *Notifier) MarkAllRead(recipientID uint) (int64, error) {
	return s.notifications.MarkAllAsRead(recipientID, s.now())
}

// SweepOnce deletes notifications read more than ReadRetention ago.
func (s *Notifier) SweepOnce() (int64, error) {
	return s.notifications.DeleteReadBefore(s.now().Add(-ReadRetention))
}

// StartRetentionSweep runs the retention sweep in the background until the
// context is cancelled.
func (s *Notifier) StartRetentionSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.SweepOnce()
				if err != nil {
					log.Printf("Notification retention sweep failed: %v", err)
				} else if deleted > 0 {
					log.Printf("Notification retention sweep deleted %d rows", deleted)
				}
			}
		}
	}()
}
