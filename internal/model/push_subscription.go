package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// An empty Recipient receives alerts for every call.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	Recipient string    `gorm:"index;size:128;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}
