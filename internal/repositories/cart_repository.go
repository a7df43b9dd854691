package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"luxe/internal/apperror"
	"luxe/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetActive returns the owner's active cart with line items and products loaded.
	GetActive(ctx context.Context, ownerID string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	AddItem(ctx context.Context, item *models.CartItem) error
	// IncrementItem adds qty to an existing line and reports whether the line existed.
	IncrementItem(ctx context.Context, cartID, productID string, qty int) (bool, error)
	SetItemQuantity(ctx context.Context, cartID, productID string, qty int) (bool, error)
	RemoveItem(ctx context.Context, cartID, productID string) (bool, error)
	ClearItems(ctx context.Context, cartID string) error
	// MarkCompleted moves an active cart to completed. It reports false when the
	// cart was no longer active, so a second call never repeats side effects.
	MarkCompleted(ctx context.Context, cartID string, at time.Time) (bool, error)
	MarkAbandoned(ctx context.Context, cartID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string, status models.CartStatus) ([]models.Cart, error)
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetActive(ctx context.Context, ownerID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Product").
		Where("owner_id = ? AND status = ?", ownerID, models.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, translate(err, "Cart not found", "get active cart")
	}
	return &cart, nil
}

func (r *GORMCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if err := r.db.WithContext(ctx).Omit("Items").Create(cart).Error; err != nil {
		return translate(err, "Cart not found", "create cart")
	}
	return nil
}

func (r *GORMCartRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Omit("Product").Create(item).Error; err != nil {
		return translate(err, "Cart not found", "add cart item")
	}
	return nil
}

func (r *GORMCartRepository) IncrementItem(ctx context.Context, cartID, productID string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to increment cart item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMCartRepository) SetItemQuantity(ctx context.Context, cartID, productID string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMCartRepository) RemoveItem(ctx context.Context, cartID, productID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMCartRepository) ClearItems(ctx context.Context, cartID string) error {
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) MarkCompleted(ctx context.Context, cartID string, at time.Time) (bool, error) {
	return r.transition(ctx, cartID, map[string]interface{}{
		"status":       models.CartStatusCompleted,
		"completed_at": at,
	})
}

func (r *GORMCartRepository) MarkAbandoned(ctx context.Context, cartID string) (bool, error) {
	return r.transition(ctx, cartID, map[string]interface{}{
		"status": models.CartStatusAbandoned,
	})
}

// transition applies fields only while the cart is still active.
func (r *GORMCartRepository) transition(ctx context.Context, cartID string, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ? AND status = ?", cartID, models.CartStatusActive).
		Updates(fields)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update cart %s: %w", cartID, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cartID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up cart %s: %w", cartID, err)
	}
	if count == 0 {
		return false, apperror.NotFound("Cart not found")
	}
	return false, nil
}

func (r *GORMCartRepository) ListByOwner(ctx context.Context, ownerID string, status models.CartStatus) ([]models.Cart, error) {
	var carts []models.Cart
	query := r.db.WithContext(ctx).Preload("Items").Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at desc").Find(&carts).Error; err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	return carts, nil
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
