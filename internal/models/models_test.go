package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetTokenExpiry(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := &PasswordResetToken{ExpiresAt: issued.Add(time.Hour)}

	assert.False(t, tok.IsExpired(issued))
	assert.False(t, tok.IsExpired(issued.Add(59*time.Minute)))
	assert.True(t, tok.IsExpired(issued.Add(time.Hour)), "expiry instant itself is expired")
	assert.True(t, tok.IsExpired(issued.Add(2*time.Hour)))
}

func TestPasswordResetTokenExpiryAcrossZones(t *testing.T) {
	expires := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	tok := &PasswordResetToken{ExpiresAt: expires}

	lisbonSummer := time.FixedZone("WEST", 3600)
	// 13:30 local is 12:30 UTC, still valid.
	assert.False(t, tok.IsExpired(time.Date(2024, 3, 1, 13, 30, 0, 0, lisbonSummer)))
	// 14:00 local is 13:00 UTC, expired.
	assert.True(t, tok.IsExpired(time.Date(2024, 3, 1, 14, 0, 0, 0, lisbonSummer)))
}

func TestPasswordResetTokenIsValid(t *testing.T) {
	now := time.Now()
	tok := &PasswordResetToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, tok.IsValid(now))

	tok.Used = true
	assert.False(t, tok.IsValid(now), "used tokens never become valid again")
}

func TestChildToResponse(t *testing.T) {
	gender := "M"
	c := &Child{
		ID:                  7,
		UserID:              2,
		FullName:            "Sam",
		Gender:              &gender,
		DateOfBirth:         time.Date(2015, 5, 1, 0, 0, 0, 0, time.UTC),
		MonthlyAlimonyValue: 300,
		EnabledYears:        []int{2024, 2025},
	}

	resp := c.ToResponse()
	assert.Equal(t, "2015-05-01", resp.DateOfBirth)
	assert.Equal(t, []int{2024, 2025}, resp.EnabledYears)
	assert.Equal(t, 300.0, resp.MonthlyAlimonyValue)
}

func TestPaymentToResponse(t *testing.T) {
	month := 1
	p := &Payment{
		ID:             3,
		ChildID:        7,
		ValuePaid:      300,
		PaymentDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		MonthReference: &month,
	}

	resp := p.ToResponse()
	assert.Equal(t, 300.0, resp.Amount)
	assert.Equal(t, "2024-01-15", resp.PaymentDate)
	assert.Equal(t, &month, resp.MonthReference)
	assert.Nil(t, resp.YearReference)
}
