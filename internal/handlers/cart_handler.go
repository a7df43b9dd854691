package handlers

import (
	"github.com/gofiber/fiber/v2"

	"luxe/internal/middleware"
	"luxe/internal/services"
)

// CartHandler handles HTTP requests for the current user's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes. All of them need a session.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	carts := router.Group("/carts", authRequired)
	carts.Post("/addCart", h.HandleAddItem)
	carts.Get("/getuserCart", h.HandleGetCart)
	carts.Delete("/clear", h.HandleClearCart)
	carts.Post("/checkout", h.HandleCheckout)
	carts.Delete("/product/:productId", h.HandleRemoveItem)
	carts.Patch("/product/:productId", h.HandleUpdateQuantity)
}

// HandleGetCart returns the active cart, or null when there is none.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Cart fetched successfully", cart)
}

// HandleAddItem adds a product to the active cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var in services.AddToCartInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cart, err := h.service.AddItem(c.UserContext(), middleware.CurrentUser(c).ID, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product added to cart", cart)
}

// HandleRemoveItem removes one product line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product removed from cart", cart)
}

// HandleUpdateQuantity sets the quantity of one product line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var body struct {
		Qty int `json:"qty"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}
	cart, err := h.service.UpdateQuantity(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("productId"), body.Qty)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Cart quantity updated", cart)
}

// HandleClearCart abandons the active cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Cart cleared", fiber.Map{})
}

// HandleCheckout completes the active cart without a gateway payment.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	cart, err := h.service.Checkout(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Checkout completed", cart)
}
