package repositories

import (
	"errors"

	"katalog/internal/models"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when no product exists for the requested ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uuid.UUID) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uuid.UUID) error
	Ping() error
}
