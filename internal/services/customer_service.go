package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/repositories"
	"luxe/internal/utils"
)

// CustomerQuery filters and orders the admin customer list.
type CustomerQuery struct {
	CustomerType   string
	CustomerStatus string
	Sort           string
	Pagination     utils.Pagination
}

// CustomerPage is one page of customers.
type CustomerPage struct {
	Customers      []models.User `json:"customers"`
	TotalCustomers int64         `json:"totalCustomers"`
	CurrentPage    int           `json:"currentPage"`
	TotalPages     int           `json:"totalPages"`
}

// CustomerStatusInput changes a customer's status and/or tier.
type CustomerStatusInput struct {
	CustomerStatus string `json:"customerStatus"`
	CustomerType   string `json:"customerType"`
}

// CustomerAnalytics is the admin view of one customer.
type CustomerAnalytics struct {
	CustomerInfo struct {
		ID             string                `json:"id"`
		Username       string                `json:"username"`
		Email          string                `json:"email"`
		FullName       string                `json:"fullname"`
		CustomerType   models.CustomerType   `json:"customerType"`
		CustomerStatus models.CustomerStatus `json:"customerStatus"`
		LastLoginDate  *time.Time            `json:"lastLoginDate"`
	} `json:"customerInfo"`
	OrderStats struct {
		TotalOrders int              `json:"totalOrders"`
		TotalSpent  decimal.Decimal  `json:"totalSpent"`
		CartHistory []models.Cart    `json:"cartHistory"`
		Payments    []models.Payment `json:"payments"`
	} `json:"orderStats"`
	AccountInfo struct {
		RegisteredOn time.Time `json:"registeredOn"`
		LastUpdated  time.Time `json:"lastUpdated"`
	} `json:"accountInfo"`
}

var customerSorts = map[string]string{
	"createdAt":    "created_at asc",
	"-createdAt":   "created_at desc",
	"totalSpent":   "total_spent asc",
	"-totalSpent":  "total_spent desc",
	"totalOrders":  "total_orders asc",
	"-totalOrders": "total_orders desc",
}

// CustomerService backs the admin customer screens.
type CustomerService struct {
	users    repositories.UserRepository
	carts    repositories.CartRepository
	payments repositories.PaymentRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(users repositories.UserRepository, carts repositories.CartRepository, payments repositories.PaymentRepository) *CustomerService {
	return &CustomerService{users: users, carts: carts, payments: payments}
}

// ListCustomers returns a filtered, sorted page of users.
func (s *CustomerService) ListCustomers(ctx context.Context, q CustomerQuery) (*CustomerPage, error) {
	filter := repositories.UserFilter{
		Offset: q.Pagination.Offset,
		Limit:  q.Pagination.Limit,
	}
	if q.CustomerType != "" {
		t := models.CustomerType(q.CustomerType)
		if !t.Valid() {
			return nil, apperror.Validation("Invalid customer type", q.CustomerType)
		}
		filter.CustomerType = t
	}
	if q.CustomerStatus != "" {
		st := models.CustomerStatus(q.CustomerStatus)
		if !st.Valid() {
			return nil, apperror.Validation("Invalid customer status", q.CustomerStatus)
		}
		filter.CustomerStatus = st
	}
	sort := q.Sort
	if sort == "" {
		sort = "createdAt"
	}
	orderBy, ok := customerSorts[sort]
	if !ok {
		return nil, apperror.Validation("Invalid sort field", sort)
	}
	filter.OrderBy = orderBy

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &CustomerPage{
		Customers:      users,
		TotalCustomers: total,
		CurrentPage:    q.Pagination.Page,
		TotalPages:     q.Pagination.TotalPages(total),
	}, nil
}

// GetCustomerAnalytics gathers one customer's profile, counters, completed carts and payments.
func (s *CustomerService) GetCustomerAnalytics(ctx context.Context, userID string) (*CustomerAnalytics, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	carts, err := s.carts.ListByOwner(ctx, userID, models.CartStatusCompleted)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	var a CustomerAnalytics
	a.CustomerInfo.ID = user.ID
	a.CustomerInfo.Username = user.Username
	a.CustomerInfo.Email = user.Email
	a.CustomerInfo.FullName = user.FullName
	a.CustomerInfo.CustomerType = user.CustomerType
	a.CustomerInfo.CustomerStatus = user.CustomerStatus
	a.CustomerInfo.LastLoginDate = user.LastLoginAt
	a.OrderStats.TotalOrders = user.TotalOrders
	a.OrderStats.TotalSpent = user.TotalSpent
	a.OrderStats.CartHistory = carts
	a.OrderStats.Payments = payments
	a.AccountInfo.RegisteredOn = user.CreatedAt
	a.AccountInfo.LastUpdated = user.UpdatedAt
	return &a, nil
}

// UpdateCustomerStatus sets a customer's status and/or tier. Deactivating a
// customer also revokes their refresh token.
func (s *CustomerService) UpdateCustomerStatus(ctx context.Context, userID string, in CustomerStatusInput) (*models.User, error) {
	fields := map[string]interface{}{}
	if v := strings.TrimSpace(in.CustomerStatus); v != "" {
		st := models.CustomerStatus(v)
		if !st.Valid() {
			return nil, apperror.Validation("Invalid customer status", v)
		}
		fields["customer_status"] = st
		if st == models.CustomerStatusInactive {
			fields["refresh_token"] = ""
		}
	}
	if v := strings.TrimSpace(in.CustomerType); v != "" {
		t := models.CustomerType(v)
		if !t.Valid() {
			return nil, apperror.Validation("Invalid customer type", v)
		}
		fields["customer_type"] = t
	}
	if len(fields) == 0 {
		return nil, apperror.Validation("Customer status or type is required")
	}

	if err := s.users.Update(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
