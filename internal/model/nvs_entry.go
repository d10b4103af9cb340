package model

import "time"

// NVSEntry is one string value of the console's flat key-value storage.
type NVSEntry struct {
	Namespace string    `gorm:"primaryKey;size:32"`
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
