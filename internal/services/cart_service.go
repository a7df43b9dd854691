package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/repositories"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 1000

// AddToCartInput is the add-to-cart payload. Qty defaults to 1.
type AddToCartInput struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"gte=0,max=1000"`
}

// CartCompletedEvent is published after a cart reaches completed.
type CartCompletedEvent struct {
	CartID  string          `json:"cartId"`
	OwnerID string          `json:"ownerId"`
	Total   decimal.Decimal `json:"total"`
}

// CartService manages a user's active cart and its lifecycle.
type CartService struct {
	uow       repositories.UnitOfWork
	carts     repositories.CartRepository
	publisher EventPublisher
}

// NewCartService creates a new CartService.
func NewCartService(uow repositories.UnitOfWork, carts repositories.CartRepository, publisher EventPublisher) *CartService {
	return &CartService{
		uow:       uow,
		carts:     carts,
		publisher: publisher,
	}
}

// GetCart returns the user's active cart, or nil when there is none.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetActive(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem adds qty of a product to the user's active cart, creating the cart
// if needed. An existing line is incremented; a new line captures the current price.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddToCartInput) (*models.Cart, error) {
	if err := validateStruct("Product id is required", in); err != nil {
		return nil, err
	}
	if in.Qty == 0 {
		in.Qty = 1
	}

	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}

		cart, err := repos.Carts.GetActive(ctx, userID)
		if repositories.IsNotFound(err) {
			cart = &models.Cart{OwnerID: userID, Status: models.CartStatusActive}
			err = repos.Carts.Create(ctx, cart)
		}
		if err != nil {
			return err
		}
		for _, item := range cart.Items {
			if item.ProductID == product.ID && item.Quantity+in.Qty > MaxLineQuantity {
				return apperror.Validation(fmt.Sprintf("Quantity cannot exceed %d", MaxLineQuantity))
			}
		}

		found, err := repos.Carts.IncrementItem(ctx, cart.ID, product.ID, in.Qty)
		if err != nil || found {
			return err
		}
		return repos.Carts.AddItem(ctx, &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  in.Qty,
			Price:     product.Price,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.carts.GetActive(ctx, userID)
}

// RemoveItem pulls a product line out of the active cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.carts.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	removed, err := s.carts.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperror.NotFound("Product not found in cart")
	}
	return s.carts.GetActive(ctx, userID)
}

// UpdateQuantity sets the quantity of a line in the active cart.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, apperror.Validation("Quantity must be at least 1")
	}
	if qty > MaxLineQuantity {
		return nil, apperror.Validation(fmt.Sprintf("Quantity cannot exceed %d", MaxLineQuantity))
	}
	cart, err := s.carts.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.carts.SetItemQuantity(ctx, cart.ID, productID, qty)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.NotFound("Product not found in cart")
	}
	return s.carts.GetActive(ctx, userID)
}

// ClearCart empties the active cart and marks it abandoned.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.uow.Do(ctx, func(repos repositories.Repositories) error {
		cart, err := repos.Carts.GetActive(ctx, userID)
		if err != nil {
			return err
		}
		if err := repos.Carts.ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		_, err = repos.Carts.MarkAbandoned(ctx, cart.ID)
		return err
	})
}

// Checkout completes the active cart without taking a payment.
func (s *CartService) Checkout(ctx context.Context, userID string) (*models.Cart, error) {
	var cart *models.Cart
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		var err error
		cart, err = repos.Carts.GetActive(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperror.Validation("Cart is empty")
		}
		_, err = s.CompleteCart(ctx, repos, cart)
		return err
	})
	if err != nil {
		return nil, err
	}

	cart.Status = models.CartStatusCompleted
	publish(s.publisher, QueuePaymentEvents, EventCartCompleted, CartCompletedEvent{
		CartID:  cart.ID,
		OwnerID: cart.OwnerID,
		Total:   cart.Total(),
	})
	return cart, nil
}

// CompleteCart is the only path from active to completed. It must run inside
// repos' transaction. The owner's counters and tier are updated only when this
// call performed the transition, so repeating it for the same cart is a no-op.
func (s *CartService) CompleteCart(ctx context.Context, repos repositories.Repositories, cart *models.Cart) (bool, error) {
	now := time.Now()
	completed, err := repos.Carts.MarkCompleted(ctx, cart.ID, now)
	if err != nil || !completed {
		return false, err
	}
	cart.CompletedAt = &now

	total := cart.Total()
	if err := repos.Users.IncrementAggregates(ctx, cart.OwnerID, total); err != nil {
		return false, err
	}

	owner, err := repos.Users.GetByID(ctx, cart.OwnerID)
	if err != nil {
		return false, err
	}
	tier := ClassifyCustomer(owner.TotalSpent, owner.TotalOrders)
	if tier.Rank() > owner.CustomerType.Rank() {
		if err := repos.Users.Update(ctx, owner.ID, map[string]interface{}{"customer_type": tier}); err != nil {
			return false, err
		}
		log.Printf("Customer %s promoted to %s", owner.ID, tier)
	}
	return true, nil
}
