package handlers

import (
	"errors"

	"katalog/internal/links"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Plain-text bodies kept byte-for-byte compatible with existing clients.
const (
	msgGetNotFound = "product not found."
	msgNotFound    = "Product not found."
	msgDeleted     = "Product deleted successfully."
)

// ProductResponse is a product annotated with hypermedia links.
type ProductResponse struct {
	models.Product
	Links links.Links `json:"_links,omitempty"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service     *services.ProductService
	validator   *validation.Validator
	linkBaseURL string
	logger      zerolog.Logger
}

// NewProductHandler creates a new ProductHandler. When linkBaseURL is empty,
// links are built from the base URL of each request.
func NewProductHandler(service *services.ProductService, linkBaseURL string, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:     service,
		validator:   validation.New(),
		linkBaseURL: linkBaseURL,
		logger:      logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Post(string(links.ProductsRoute), h.HandleCreateProduct)
	router.Get(string(links.ProductsRoute), h.HandleGetProducts)
	router.Get(string(links.ProductRoute), h.HandleGetProductByID)
	router.Put(string(links.ProductRoute), h.HandleUpdateProduct)
	router.Delete(string(links.ProductRoute), h.HandleDeleteProduct)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input, err := h.bindInput(c)
	if err != nil {
		return h.badRequest(c, err)
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		return h.internalError(c, err, "Could not create product")
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProducts retrieves all products, each with a link to itself.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return h.internalError(c, err, "Could not retrieve products")
	}

	responses := make([]ProductResponse, 0, len(products))
	if len(products) > 0 {
		base := h.baseURL(c)
		for _, p := range products {
			responses = append(responses, ProductResponse{
				Product: p,
				Links: links.Links{
					links.RelSelf: {Href: links.Build(base, links.ProductRoute, p.ID.String())},
				},
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(responses)
}

// HandleGetProductByID retrieves a single product with a link back to the collection.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.invalidID(c, err)
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).SendString(msgGetNotFound)
		}
		return h.internalError(c, err, "Could not retrieve product")
	}

	return c.Status(fiber.StatusOK).JSON(ProductResponse{
		Product: *product,
		Links: links.Links{
			links.RelProductsList: {Href: links.Build(h.baseURL(c), links.ProductsRoute, "")},
		},
	})
}

// HandleUpdateProduct replaces name and value of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.invalidID(c, err)
	}

	input, err := h.bindInput(c)
	if err != nil {
		return h.badRequest(c, err)
	}

	product, err := h.service.UpdateProduct(id, input)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).SendString(msgNotFound)
		}
		return h.internalError(c, err, "Could not update product")
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.invalidID(c, err)
	}

	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).SendString(msgNotFound)
		}
		return h.internalError(c, err, "Could not delete product")
	}

	return c.Status(fiber.StatusOK).SendString(msgDeleted)
}
