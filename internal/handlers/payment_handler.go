package handlers

import (
	"github.com/gofiber/fiber/v2"

	"luxe/internal/middleware"
	"luxe/internal/services"
)

// PaymentHandler handles HTTP requests for gateway orders and payments.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

// RegisterRoutes registers the payment routes.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	payment := router.Group("/payment", authRequired)
	payment.Post("/create-order", h.HandleCreateOrder)
	payment.Post("/verify", h.HandleVerifyPayment)
	payment.Get("/all-orders", adminRequired, h.HandleListPayments)
	payment.Patch("/:orderId/status", adminRequired, h.HandleUpdateStatus)
}

// HandleCreateOrder opens a gateway order for the active cart.
func (h *PaymentHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var in services.CreateOrderInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	}
	order, err := h.service.CreateOrder(c.UserContext(), middleware.CurrentUser(c).ID, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Order created successfully", order)
}

// HandleVerifyPayment records a payment confirmed by the gateway.
func (h *PaymentHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var in services.VerifyPaymentInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	payment, err := h.service.VerifyPayment(c.UserContext(), middleware.CurrentUser(c).ID, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Payment verified successfully", payment)
}

// HandleListPayments returns every payment.
func (h *PaymentHandler) HandleListPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListPayments(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Orders fetched successfully", payments)
}

// HandleUpdateStatus overrides the status of a payment.
func (h *PaymentHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}
	payment, err := h.service.UpdatePaymentStatus(c.UserContext(), c.Params("orderId"), body.Status)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Order status updated", payment)
}
