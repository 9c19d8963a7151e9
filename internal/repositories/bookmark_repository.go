package repositories

import (
	"errors"

	"github.com/campusplaced/backend/internal/models"
	"gorm.io/gorm"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	CreateBookmark(bookmark *models.Bookmark) error
	DeleteBookmark(userID uint, experienceID string) error
	HasBookmarked(userID uint, experienceID string) (bool, error)
	GetByUserID(userID uint) ([]models.Bookmark, error)
	DeleteByExperienceID(experienceID string) error
}

type postgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &postgresBookmarkRepository{db: db}
}

func (r *postgresBookmarkRepository) CreateBookmark(bookmark *models.Bookmark) error {
	err := r.db.Create(bookmark).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (r *postgresBookmarkRepository) DeleteBookmark(userID uint, experienceID string) error {
	res := r.db.Where("user_id = ? AND experience_id = ?", userID, experienceID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresBookmarkRepository) HasBookmarked(userID uint, experienceID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).Count(&count).Error
	return count > 0, err
}

func (r *postgresBookmarkRepository) GetByUserID(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error
	return bookmarks, err
}

// DeleteByExperienceID removes all bookmarks of a deleted experience.
func (r *postgresBookmarkRepository) DeleteByExperienceID(experienceID string) error {
	return r.db.Where("experience_id = ?", experienceID).Delete(&models.Bookmark{}).Error
}
