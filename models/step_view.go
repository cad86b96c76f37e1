package models

import "time"

// StepView counts how often each onboarding page was continued from, per day.
type StepView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"index:idx_sv_date_page,unique;type:date;not null" json:"date"`
	Page      string    `gorm:"index;index:idx_sv_date_page,unique;size:64;not null" json:"page"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
