// internal/models/wine.go
package models

import "time"

// DefaultRegion is stored when a relaxed-mode create omits the region.
const DefaultRegion = "Unknown"

type Wine struct {
	BaseModel
	OwnerID  string  `json:"owner_id" gorm:"column:user_id;type:text;not null;index"`
	Name     string  `json:"name" gorm:"type:text;not null"`
	Grape    string  `json:"grape" gorm:"type:text"`
	Region   string  `json:"region" gorm:"type:text"`
	Year     int     `json:"year" gorm:"not null"`
	Price    float64 `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Rating   float64 `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	Quantity int     `json:"quantity" gorm:"not null;default:0"`
}

func (Wine) TableName() string {
	return "wines"
}

// WineChanges is a partial update. Nil fields are left untouched.
type WineChanges struct {
	Name     *string
	Grape    *string
	Region   *string
	Year     *int
	Price    *float64
	Rating   *float64
	Quantity *int
}

// IsEmpty reports whether no data field is set.
func (c WineChanges) IsEmpty() bool {
	return c.Name == nil && c.Grape == nil && c.Region == nil && c.Year == nil &&
		c.Price == nil && c.Rating == nil && c.Quantity == nil
}

// Columns returns the column/value pairs to write, always including updated_at.
func (c WineChanges) Columns(updatedAt time.Time) map[string]interface{} {
	updates := map[string]interface{}{"updated_at": updatedAt}
	if c.Name != nil {
		updates["name"] = *c.Name
	}
	if c.Grape != nil {
		updates["grape"] = *c.Grape
	}
	if c.Region != nil {
		updates["region"] = *c.Region
	}
	if c.Year != nil {
		updates["year"] = *c.Year
	}
	if c.Price != nil {
		updates["price"] = *c.Price
	}
	if c.Rating != nil {
		updates["rating"] = *c.Rating
	}
	if c.Quantity != nil {
		updates["quantity"] = *c.Quantity
	}
	return updates
}

// Apply copies the set fields onto w and stamps UpdatedAt.
func (c WineChanges) Apply(w *Wine, updatedAt time.Time) {
	if c.Name != nil {
		w.Name = *c.Name
	}
	if c.Grape != nil {
		w.Grape = *c.Grape
	}
	if c.Region != nil {
		w.Region = *c.Region
	}
	if c.Year != nil {
		w.Year = *c.Year
	}
	if c.Price != nil {
		w.Price = *c.Price
	}
	if c.Rating != nil {
		w.Rating = *c.Rating
	}
	if c.Quantity != nil {
		w.Quantity = *c.Quantity
	}
	w.UpdatedAt = updatedAt
}
