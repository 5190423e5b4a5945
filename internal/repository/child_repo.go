package repository

import (
	"errors"

	"github.com/pensao-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrChildNotFound = errors.New("child not found")
)

// ChildRepository handles child data access
type ChildRepository struct {
	db *gorm.DB
}

// NewChildRepository creates a new ChildRepository
func NewChildRepository(db *gorm.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// Create creates a new child
func (r *ChildRepository) Create(child *models.Child) error {
	return r.db.Create(child).Error
}

// GetByIDAndUserID retrieves a child by ID scoped to its owner. A child owned
// by someone else is reported as ErrChildNotFound.
func (r *ChildRepository) GetByIDAndUserID(id, userID uint) (*models.Child, error) {
	var child models.Child
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&child)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrChildNotFound
		}
		return nil, result.Error
	}
	return &child, nil
}

// GetByUserID retrieves all children for a user in storage order
func (r *ChildRepository) GetByUserID(userID uint) ([]models.Child, error) {
	var children []models.Child
	result := r.db.Where("user_id = ?", userID).Order("id").Find(&children)
	if result.Error != nil {
		return nil, result.Error
	}
	return children, nil
}

// Update updates a child
func (r *ChildRepository) Update(child *models.Child) error {
	return r.db.Save(child).Error
}

// Delete removes a child and all of its payments
func (r *ChildRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("child_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Child{}, id).Error
	})
}
