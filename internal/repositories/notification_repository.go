package repositories

import (
	"time"

	"github.com/campusplaced/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	CreateBatch(notifications []models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetByID(id uint) (*models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(id uint, at time.Time) error
	MarkAllAsRead(recipientID uint, at time.Time) (int64, error)
	DeleteNotification(id uint, recipientID uint) error
	ClearAll(recipientID uint) (int64, error)
	DeleteReadBefore(cutoff time.Time) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// CreateBatch inserts announcement fan-out rows in one statement.
func (r *postgresNotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(notifications, 500).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

// MarkAsRead is idempotent: the is_read guard means a second call matches
// zero rows and read_at keeps its original value.
func (r *postgresNotificationRepository) MarkAsRead(id uint, at time.Time) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = false", id).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint, at time.Time) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) DeleteNotification(id uint, recipientID uint) error {
	res := r.db.Where("id = ? AND recipient_id = ?", id, recipientID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) ClearAll(recipientID uint) (int64, error) {
	res := r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

// DeleteReadBefore removes read notifications whose read_at is older than
// the cutoff. Unread rows are never touched.
func (r *postgresNotificationRepository) DeleteReadBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("is_read = true AND read_at < ?", cutoff).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
