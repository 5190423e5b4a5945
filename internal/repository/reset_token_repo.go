package repository

import (
	"errors"

	"github.com/pensao-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrResetTokenUsed     = errors.New("reset token already used")
)

// ResetTokenRepository handles password reset token data access
type ResetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(db *gorm.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create persists a freshly issued token
func (r *ResetTokenRepository) Create(token *models.PasswordResetToken) error {
	token.ExpiresAt = token.ExpiresAt.UTC()
	return r.db.Create(token).Error
}

// GetByToken looks a token up by its opaque value, used or not
func (r *ResetTokenRepository) GetByToken(value string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	result := r.db.Where("token = ?", value).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, result.Error
	}
	return &token, nil
}

// Consume marks the token used and stores the new password hash in a single
// commit. The used flag is flipped with a conditional update so only one of
// two concurrent consumers wins; the loser gets ErrResetTokenUsed and the
// password is left untouched.
func (r *ResetTokenRepository) Consume(token *models.PasswordResetToken, passwordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND used = ?", token.ID, false).
			Update("used", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrResetTokenUsed
		}

		result = tx.Model(&models.User{}).
			Where("id = ?", token.UserID).
			Update("password_hash", passwordHash)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		token.Used = true
		return nil
	})
}
