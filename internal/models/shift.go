package models

import "time"

// Shift is one doctor's entry on a dashboard. The time range is a free-text
// label ("8:00 AM - 4:00 PM"), not parsed.
type Shift struct {
	ID          uint   `gorm:"primaryKey"`
	DashboardID uint   `gorm:"not null;index"`
	DoctorName  string `gorm:"size:100;not null"`
	ShiftTime   string `gorm:"size:100;not null"`
	CreatedAt   time.Time

	Counts *ShiftCount `gorm:"foreignKey:ShiftID"`
}

func (Shift) TableName() string { return "doctor_shifts" }

// ShiftCount holds the four counters of a shift, one row per shift.
type ShiftCount struct {
	ID           uint `gorm:"primaryKey"`
	ShiftID      uint `gorm:"not null;uniqueIndex"`
	Member1      int  `gorm:"not null;default:0"`
	Member2      int  `gorm:"not null;default:0"`
	Member3      int  `gorm:"not null;default:0"`
	PrivateCount int  `gorm:"not null;default:0"`
}
