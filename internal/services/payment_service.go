package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/repositories"
	"luxe/pkg/razorpay"
)

// PaymentGateway is the part of the gateway client the payment flow needs.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, in razorpay.OrderRequest) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// CreateOrderInput may carry the total the client expects to pay. It is only
// compared with the server-side total, never charged.
type CreateOrderInput struct {
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	Currency    string           `json:"currency"`
}

// VerifyPaymentInput is the gateway's checkout callback relayed by the client.
type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// PaymentVerifiedEvent is published after a payment is committed.
type PaymentVerifiedEvent struct {
	PaymentID        string          `json:"paymentId"`
	GatewayOrderID   string          `json:"gatewayOrderId"`
	GatewayPaymentID string          `json:"gatewayPaymentId"`
	OwnerID          string          `json:"ownerId"`
	CartID           string          `json:"cartId"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

// PaymentService creates gateway orders and reconciles verified payments.
type PaymentService struct {
	uow       repositories.UnitOfWork
	carts     repositories.CartRepository
	payments  repositories.PaymentRepository
	cartSvc   *CartService
	gateway   PaymentGateway
	publisher EventPublisher
	currency  string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	uow repositories.UnitOfWork,
	carts repositories.CartRepository,
	payments repositories.PaymentRepository,
	cartSvc *CartService,
	gateway PaymentGateway,
	publisher EventPublisher,
	currency string,
) *PaymentService {
	return &PaymentService{
		uow:       uow,
		carts:     carts,
		payments:  payments,
		cartSvc:   cartSvc,
		gateway:   gateway,
		publisher: publisher,
		currency:  currency,
	}
}

// CreateOrder opens a gateway order for the total of the user's active cart.
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*razorpay.Order, error) {
	if in.Currency != "" && !strings.EqualFold(in.Currency, s.currency) {
		return nil, apperror.Validation("Unsupported currency", in.Currency)
	}

	cart, err := s.carts.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := cart.Total()
	if len(cart.Items) == 0 || !total.IsPositive() {
		return nil, apperror.Validation("Invalid order amount")
	}
	minor, err := minorUnits(total)
	if err != nil {
		return nil, err
	}
	if in.TotalAmount != nil && !in.TotalAmount.Equal(total) {
		return nil, apperror.Validation("Order amount does not match the cart total",
			fmt.Sprintf("expected %s", total.StringFixed(2)))
	}

	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   minor,
		Currency: s.currency,
		Receipt:  "cart_" + cart.ID,
		Notes:    map[string]string{"cartId": cart.ID, "ownerId": userID},
	})
	if err != nil {
		log.Printf("Gateway order creation failed for cart %s: %v", cart.ID, err)
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	record := &models.GatewayOrder{
		GatewayOrderID: order.ID,
		OwnerID:        userID,
		CartID:         cart.ID,
		Amount:         total,
		Currency:       s.currency,
		Status:         models.GatewayOrderCreated,
	}
	if err := s.payments.CreateGatewayOrder(ctx, record); err != nil {
		return nil, err
	}
	return order, nil
}

// VerifyPayment checks the gateway signature and, only if it matches, records
// the payment, completes the cart and updates the owner's counters in one
// transaction. The recorded amount is the server-side cart total.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID string, in VerifyPaymentInput) (*models.Payment, error) {
	if err := validateStruct("Order id, payment id and signature are required", in); err != nil {
		return nil, err
	}
	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		log.Printf("Payment verification failed for order %s", in.OrderID)
		return nil, apperror.Validation("Payment verification failed")
	}

	var payment *models.Payment
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		order, err := repos.Payments.GetGatewayOrder(ctx, in.OrderID, userID)
		if err != nil {
			return err
		}
		if order.Status == models.GatewayOrderPaid {
			return apperror.Conflict("Order has already been paid")
		}

		cart, err := repos.Carts.GetActive(ctx, userID)
		if err != nil {
			return err
		}
		total := cart.Total()
		if cart.ID != order.CartID || !total.Equal(order.Amount) {
			return apperror.Conflict("Cart changed after the order was created")
		}

		items := make([]models.PaymentItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			snapshot := models.PaymentItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
			if item.Product != nil {
				snapshot.Name = item.Product.Name
			}
			items = append(items, snapshot)
		}
		payment = &models.Payment{
			GatewayOrderID:   in.OrderID,
			GatewayPaymentID: in.PaymentID,
			Signature:        in.Signature,
			Status:           models.PaymentStatusSuccessful,
			Amount:           total,
			Currency:         order.Currency,
			OwnerID:          userID,
			CartID:           cart.ID,
			Items:            items,
		}
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}

		completed, err := s.cartSvc.CompleteCart(ctx, repos, cart)
		if err != nil {
			return err
		}
		if !completed {
			return apperror.Conflict("Cart is no longer active")
		}

		paid, err := repos.Payments.MarkGatewayOrderPaid(ctx, order.ID)
		if err != nil {
			return err
		}
		if !paid {
			return apperror.Conflict("Order has already been paid")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Payment %s verified for order %s", payment.GatewayPaymentID, payment.GatewayOrderID)
	publish(s.publisher, QueuePaymentEvents, EventPaymentVerified, PaymentVerifiedEvent{
		PaymentID:        payment.ID,
		GatewayOrderID:   payment.GatewayOrderID,
		GatewayPaymentID: payment.GatewayPaymentID,
		OwnerID:          payment.OwnerID,
		CartID:           payment.CartID,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
	})
	return payment, nil
}

// ListPayments returns every payment, newest first, with its owner.
func (s *PaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return s.payments.List(ctx)
}

// UpdatePaymentStatus is an administrative override. It does not touch the
// owner's counters.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	st := models.PaymentStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, apperror.Validation("Invalid payment status", status)
	}
	return s.payments.UpdateStatus(ctx, id, st)
}

// minorUnits converts a two-decimal amount to the gateway's integer minor
// unit. Amounts that would be rounded or overflow int64 are rejected.
func minorUnits(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, apperror.Validation("Order amount has more than two decimal places")
	}
	minor := shifted.IntPart()
	if !shifted.Equal(decimal.NewFromInt(minor)) {
		return 0, apperror.Validation("Order amount is too large")
	}
	return minor, nil
}
