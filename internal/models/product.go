package models

import "github.com/google/uuid"

// Product represents a product in the catalog.
type Product struct {
	ID    uuid.UUID `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name  string    `json:"name" gorm:"not null"`
	Value Amount    `json:"value" gorm:"not null"`
}

// TableName overrides the default GORM table name.
func (Product) TableName() string {
	return "tb_products"
}

// ProductInput is the request body accepted on create and update.
// Value is a pointer so a missing field can be told apart from zero.
type ProductInput struct {
	Name  string  `json:"name" validate:"required,notblank"`
	Value *Amount `json:"value" validate:"required"`
}
