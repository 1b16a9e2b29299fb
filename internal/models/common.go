// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields. Rows are hard-deleted, so there is no
// DeletedAt column.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// ValidationMode selects which revision of the wine rules applies.
type ValidationMode string

const (
	ValidationModeRelaxed ValidationMode = "relaxed"
	ValidationModeStrict  ValidationMode = "strict"
)

func (m ValidationMode) Valid() bool {
	return m == ValidationModeRelaxed || m == ValidationModeStrict
}
