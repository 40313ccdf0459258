package models

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Amount is an exact decimal that keeps the scale it was written with,
// so 1.50 is stored and rendered as 1.50.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// String renders the amount without trimming trailing zeros.
func (a Amount) String() string {
	if a.Exponent() < 0 {
		return a.StringFixed(-a.Exponent())
	}
	return a.Decimal.String()
}

// MarshalJSON renders the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// Value stores the amount as its exact decimal string.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// GormDBDataType keeps amounts exact on every dialect. SQLite would coerce
// a numeric column to a float, so amounts are stored as text there.
func (Amount) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "numeric(38,2)"
}
