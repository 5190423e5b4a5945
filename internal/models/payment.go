package models

import (
	"time"
)

// Payment is an amount paid towards a child's support obligation
type Payment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ChildID        uint      `gorm:"index;not null" json:"child_id"`
	ValuePaid      float64   `gorm:"not null" json:"amount"`
	PaymentDate    time.Time `gorm:"type:date;index;not null" json:"payment_date"`
	MonthReference *int      `json:"month_reference"`
	YearReference  *int      `json:"year_reference"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse is the response structure for a payment
type PaymentResponse struct {
	ID             uint      `json:"id"`
	ChildID        uint      `json:"child_id"`
	Amount         float64   `json:"amount"`
	PaymentDate    string    `json:"payment_date"`
	MonthReference *int      `json:"month_reference"`
	YearReference  *int      `json:"year_reference"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts the payment into its wire representation
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		ChildID:        p.ChildID,
		Amount:         p.ValuePaid,
		PaymentDate:    p.PaymentDate.Format(DateLayout),
		MonthReference: p.MonthReference,
		YearReference:  p.YearReference,
		CreatedAt:      p.CreatedAt.UTC(),
	}
}
