package models

import (
	"time"
)

// Product row. ID is assigned by the repository as max(id)+1 inside the
// insert transaction, never by the store's autoincrement.
type Product struct {
	ID             int        `gorm:"primaryKey;column:id"      json:"id"`
	Name           string     `gorm:"size:100;not null"         json:"name"`
	Description    string     `gorm:"size:100;not null"         json:"description"`
	Price          float64    `gorm:"not null"                  json:"price"`
	CreatedAt      *time.Time `gorm:"column:created_at;autoCreateTime:false" json:"created_at,omitempty"`
	CreatedBy      string     `gorm:"size:100"                  json:"created_by,omitempty"`
	UpdatedAt      *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
	UpdatedBy      string     `gorm:"size:100"                  json:"updated_by,omitempty"`
	LastAccessedAt *time.Time `gorm:"column:last_accessed_at"   json:"last_accessed_at,omitempty"`
	LastAccessedBy string     `gorm:"size:100"                  json:"last_accessed_by,omitempty"`
}

// User is a credential-store record. Users are built from configuration at
// startup and never persisted.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
