package models

import "time"

type UserRole string

const (
	RoleEditor UserRole = "editor"
	RoleViewer UserRole = "viewer"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Name         string   `gorm:"size:100;not null"`
	Role         UserRole `gorm:"size:20;not null;default:viewer"`
	AvatarURL    *string  `gorm:"size:500"`
	Theme        Theme    `gorm:"size:20;not null;default:light"`
	Language     Language `gorm:"size:10;not null;default:ar"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
