package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"store/internal/models"
	"store/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	validate := validator.New()
	// Teach the validator to treat decimal values as numbers so gt=0 applies.
	// Validation sees a float approximation; the stored value stays exact.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &ProductHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleQueryProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var body models.ProductIn
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(body); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.service.Create(c.Context(), body)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidIDResponse(c, c.Params("id"))
	}

	product, err := h.service.Get(c.Context(), id)
	if err != nil {
		return errorResponse(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleQueryProducts retrieves all products, up to the service's result cap.
func (h *ProductHandler) HandleQueryProducts(c *fiber.Ctx) error {
	products, err := h.service.Query(c.Context())
	if err != nil {
		log.Printf("Error querying products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidIDResponse(c, c.Params("id"))
	}

	var body models.ProductUpdate
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(body); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.service.Update(c.Context(), id, body)
	if err != nil {
		return errorResponse(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidIDResponse(c, c.Params("id"))
	}

	if _, err := h.service.Delete(c.Context(), id); err != nil {
		return errorResponse(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// errorResponse translates a service error: NotFoundError becomes a 404 with
// the signal's message as the detail payload, anything else a 500.
func errorResponse(c *fiber.Ctx, message string, err error) error {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": notFound.Error(),
		})
	}
	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationErrorResponse reports per-field validation failures as a 422.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// invalidIDResponse rejects a path identifier that is not a valid UUID.
func invalidIDResponse(c *fiber.Ctx, raw string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  map[string]string{"id": fmt.Sprintf("'%s' is not a valid UUID", raw)},
	})
}
