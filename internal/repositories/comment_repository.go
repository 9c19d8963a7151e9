package repositories

import (
	"errors"

	"github.com/campusplaced/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetByExperienceID(experienceID string) ([]models.Comment, error)
	DeleteComment(id uint) error
	DeleteByExperienceID(experienceID string) (int64, error)
}

type postgresCommentRepository struct {
	db *gorm.DB
}

func NewPostgresCommentRepository(db *gorm.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *postgresCommentRepository) GetByExperienceID(experienceID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("experience_id = ?", experienceID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *postgresCommentRepository) DeleteComment(id uint) error {
	res := r.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByExperienceID cascades comment deletion when an experience is removed.
func (r *postgresCommentRepository) DeleteByExperienceID(experienceID string) (int64, error) {
	res := r.db.Where("experience_id = ?", experienceID).Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}
