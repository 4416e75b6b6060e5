package models

import "time"

type Dashboard struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Color     string `gorm:"size:50;not null"`
	ShareData bool   `gorm:"not null;default:false"`
	CreatedAt time.Time

	Shifts []Shift `gorm:"foreignKey:DashboardID"`
}
