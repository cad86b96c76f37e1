package models

import "time"

// OnboardingEvent is one analytics event of an onboarding session.
type OnboardingEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"size:36;index;not null" json:"session_id"`
	Name       string    `gorm:"size:64;index;not null" json:"name"`
	Page       string    `gorm:"size:64" json:"page,omitempty"`
	Coins      int       `gorm:"not null;default:0" json:"coins"`
	Detail     string    `gorm:"size:128" json:"detail,omitempty"`
	OccurredAt time.Time `gorm:"index;not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
