package models

import "time"

type Appointment struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	ClientID string `gorm:"size:64;index;not null" json:"client_id"`

	Date    string    `gorm:"size:10;index;not null" json:"date"`
	Time    string    `gorm:"size:5;not null" json:"time"`
	StartAt time.Time `gorm:"index" json:"start_at"`

	// posição no ledger do cliente (0 = mais recente); desempata (data, hora)
	Position int `gorm:"not null;default:0" json:"position"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
