package services

import (
	"fmt"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventPublisher publishes product lifecycle events to a message broker.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil,
// in which case no events are published.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uuid.UUID) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product from a validated input.
func (s *ProductService) CreateProduct(input models.ProductInput) (*models.Product, error) {
	product := &models.Product{Name: input.Name}
	if input.Value != nil {
		product.Value = *input.Value
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publish(models.EventProductCreated, *product)
	return product, nil
}

// UpdateProduct replaces name and value of an existing product.
// The ID is taken from the path and is never changed.
func (s *ProductService) UpdateProduct(id uuid.UUID, input models.ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	if input.Value != nil {
		product.Value = *input.Value
	}

	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	s.publish(models.EventProductUpdated, *product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	s.publish(models.EventProductDeleted, *product)
	return nil
}

// publish sends an event when a publisher is configured. Failures are logged
// and never fail the calling operation.
func (s *ProductService) publish(eventType string, product models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(models.NewProductEvent(eventType, product)); err != nil {
		s.logger.Warn().Err(err).
			Str("event", eventType).
			Str("product_id", product.ID.String()).
			Msg("failed to publish product event")
		return
	}
	s.logger.Debug().
		Str("event", eventType).
		Str("product_id", product.ID.String()).
		Msg("published product event")
}
