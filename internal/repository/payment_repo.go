package repository

import (
	"errors"

	"github.com/pensao-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

// PaymentRepository handles payment data access
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment
func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	result := r.db.First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, result.Error
	}
	return &payment, nil
}

// GetByChildID retrieves all payments of a child, oldest payment date first
func (r *PaymentRepository) GetByChildID(childID uint) ([]models.Payment, error) {
	var payments []models.Payment
	result := r.db.Where("child_id = ?", childID).
		Order("payment_date ASC").
		Order("id ASC").
		Find(&payments)
	return payments, result.Error
}

// Update updates a payment
func (r *PaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// Delete removes a payment
func (r *PaymentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Payment{}, id).Error
}

// CountByChildID counts payments recorded for a child
func (r *PaymentRepository) CountByChildID(childID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Where("child_id = ?", childID).Count(&count).Error
	return count, err
}
