package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"luxe/internal/apperror"
	"luxe/internal/models"
)

// PaymentRepository defines the interface for gateway order and payment data access.
type PaymentRepository interface {
	CreateGatewayOrder(ctx context.Context, order *models.GatewayOrder) error
	GetGatewayOrder(ctx context.Context, gatewayOrderID, ownerID string) (*models.GatewayOrder, error)
	MarkGatewayOrderPaid(ctx context.Context, id string) (bool, error)

	Create(ctx context.Context, payment *models.Payment) error
	List(ctx context.Context) ([]models.Payment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Payment, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error)
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) CreateGatewayOrder(ctx context.Context, order *models.GatewayOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return translate(err, "Order not found", "create gateway order")
	}
	return nil
}

func (r *GORMPaymentRepository) GetGatewayOrder(ctx context.Context, gatewayOrderID, ownerID string) (*models.GatewayOrder, error) {
	var order models.GatewayOrder
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ? AND owner_id = ?", gatewayOrderID, ownerID).
		First(&order).Error
	if err != nil {
		return nil, translate(err, "Order not found", "get gateway order")
	}
	return &order, nil
}

// MarkGatewayOrderPaid flips a created order to paid and reports whether this call did it.
func (r *GORMPaymentRepository) MarkGatewayOrderPaid(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.GatewayOrder{}).
		Where("id = ? AND status = ?", id, models.GatewayOrderCreated).
		Update("status", models.GatewayOrderPaid)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark gateway order paid: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Create inserts the payment together with its item snapshot.
func (r *GORMPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Omit("Owner").Create(payment).Error; err != nil {
		return translate(err, "Payment not found", "create payment")
	}
	return nil
}

func (r *GORMPaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Items").
		Order("created_at desc").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for owner: %w", err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at asc").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments in range: %w", err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("Payment not found")
	}

	var payment models.Payment
	if err := r.db.WithContext(ctx).Preload("Items").First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Payment not found", "reload payment")
	}
	return &payment, nil
}
