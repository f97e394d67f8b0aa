package store

import "time"

// GORM models used for persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

type BookModel struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"not null;index"`
	Owner       *UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name        string `gorm:"size:255;not null"`
	Category    string `gorm:"size:100;not null;index"`
	Description string `gorm:"type:text;not null"`
	Price       float64 `gorm:"not null"`
	ImageURL    string
	FileURL     string
	FileName    string
	FileSize    int64
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}
