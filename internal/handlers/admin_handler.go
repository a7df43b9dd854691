package handlers

import (
	"github.com/gofiber/fiber/v2"

	"luxe/internal/services"
	"luxe/internal/utils"
)

const defaultCustomerLimit = 10

// AdminHandler serves the customer management and dashboard endpoints.
type AdminHandler struct {
	customers *services.CustomerService
	analytics *services.AnalyticsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(customers *services.CustomerService, analytics *services.AnalyticsService) *AdminHandler {
	return &AdminHandler{
		customers: customers,
		analytics: analytics,
	}
}

// RegisterRoutes registers the admin routes under /users.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	// Group middleware would also cover the public /users routes.
	users := router.Group("/users")
	users.Get("/customers", authRequired, adminRequired, h.HandleListCustomers)
	users.Get("/customers/:userId/analytics", authRequired, adminRequired, h.HandleCustomerAnalytics)
	users.Patch("/customers/:userId/status", authRequired, adminRequired, h.HandleUpdateCustomerStatus)
	users.Get("/dashboard-stats", authRequired, adminRequired, h.HandleDashboardStats)
}

// HandleListCustomers returns one filtered page of customers.
func (h *AdminHandler) HandleListCustomers(c *fiber.Ctx) error {
	page, err := h.customers.ListCustomers(c.UserContext(), services.CustomerQuery{
		CustomerType:   c.Query("customerType"),
		CustomerStatus: c.Query("customerStatus"),
		Sort:           c.Query("sort"),
		Pagination:     utils.ParsePagination(c, defaultCustomerLimit),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Customers fetched successfully", page)
}

// HandleCustomerAnalytics returns the purchase history of one customer.
func (h *AdminHandler) HandleCustomerAnalytics(c *fiber.Ctx) error {
	analytics, err := h.customers.GetCustomerAnalytics(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Customer analytics fetched successfully", analytics)
}

// HandleUpdateCustomerStatus changes a customer's status or tier.
func (h *AdminHandler) HandleUpdateCustomerStatus(c *fiber.Ctx) error {
	var in services.CustomerStatusInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.customers.UpdateCustomerStatus(c.UserContext(), c.Params("userId"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Customer status updated successfully", user)
}

// HandleDashboardStats returns the sales dashboard for the last "days" days.
func (h *AdminHandler) HandleDashboardStats(c *fiber.Ctx) error {
	stats, err := h.analytics.Dashboard(c.UserContext(), c.QueryInt("days", 0))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Dashboard stats fetched successfully", stats)
}
