package handlers

import (
	"github.com/gofiber/fiber/v2"

	"luxe/internal/services"
	"luxe/internal/utils"
)

const defaultProductLimit = 10

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes need an admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	products := router.Group("/products")
	products.Get("/all-products", h.HandleGetProductPage)
	products.Get("/get-product", h.HandleGetProducts)
	products.Post("/create-product", authRequired, adminRequired, h.HandleCreateProduct)
	products.Patch("/update/:productId", authRequired, adminRequired, h.HandleUpdateProduct)
	products.Delete("/delete/:productId", authRequired, adminRequired, h.HandleDeleteProduct)
	products.Get("/:productId", h.HandleGetProductByID)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Products fetched successfully", products)
}

// HandleGetProductPage retrieves one page of products.
func (h *ProductHandler) HandleGetProductPage(c *fiber.Ctx) error {
	page, err := h.service.GetProductPage(c.UserContext(), utils.ParsePagination(c, defaultProductLimit), c.Query("sort"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Products fetched successfully", page)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("productId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product fetched successfully", product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Product created successfully", product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var in services.ProductUpdate
	if err := parseBody(c, &in); err != nil {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("productId"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product updated successfully", product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("productId")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product deleted successfully", fiber.Map{})
}
