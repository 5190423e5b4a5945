package models

import (
	"time"
)

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// Child is a dependant owed a monthly support amount by its owning user
type Child struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"index;not null" json:"user_id"`
	FullName            string    `gorm:"size:255;not null" json:"full_name"`
	Gender              *string   `gorm:"size:50" json:"gender"`
	DateOfBirth         time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	MonthlyAlimonyValue float64   `gorm:"not null" json:"monthly_alimony_value"`
	EnabledYears        []int     `gorm:"serializer:json" json:"enabled_years"`

	// Relations
	Payments []Payment `gorm:"foreignKey:ChildID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Child model
func (Child) TableName() string {
	return "children"
}

// ChildResponse is the response structure for a child
type ChildResponse struct {
	ID                  uint    `json:"id"`
	UserID              uint    `json:"user_id"`
	FullName            string  `json:"full_name"`
	Gender              *string `json:"gender"`
	DateOfBirth         string  `json:"date_of_birth"`
	MonthlyAlimonyValue float64 `json:"monthly_alimony_value"`
	EnabledYears        []int   `json:"enabled_years"`
}

// ToResponse converts the child into its wire representation
func (c *Child) ToResponse() ChildResponse {
	return ChildResponse{
		ID:                  c.ID,
		UserID:              c.UserID,
		FullName:            c.FullName,
		Gender:              c.Gender,
		DateOfBirth:         c.DateOfBirth.Format(DateLayout),
		MonthlyAlimonyValue: c.MonthlyAlimonyValue,
		EnabledYears:        c.EnabledYears,
	}
}
