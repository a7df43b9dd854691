package models

import "github.com/shopspring/decimal"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusSuccessful || s == PaymentStatusFailed
}

type GatewayOrderStatus string

const (
	GatewayOrderCreated GatewayOrderStatus = "created"
	GatewayOrderPaid    GatewayOrderStatus = "paid"
)

// GatewayOrder records an order opened at the payment gateway, with the
// amount the server computed from the cart it was opened for.
type GatewayOrder struct {
	Base
	GatewayOrderID string             `json:"gatewayOrderId" gorm:"type:varchar(64);not null;uniqueIndex"`
	OwnerID        string             `json:"owner" gorm:"type:varchar(36);not null;index"`
	CartID         string             `json:"cartId" gorm:"type:varchar(36);not null;index"`
	Amount         decimal.Decimal    `json:"amount" gorm:"type:numeric(14,2);not null"`
	Currency       string             `json:"currency" gorm:"type:varchar(8);not null"`
	Status         GatewayOrderStatus `json:"status" gorm:"type:varchar(20);not null"`
}

// Payment is the durable record of a verified transaction. Its items are a
// snapshot of the cart at verification time.
type Payment struct {
	Base
	GatewayOrderID   string          `json:"razorpay_order_id" gorm:"type:varchar(64);not null;index"`
	GatewayPaymentID string          `json:"razorpay_payment_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	Signature        string          `json:"razorpay_signature" gorm:"type:varchar(128);not null"`
	Status           PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Currency         string          `json:"currency" gorm:"type:varchar(8);not null"`
	OwnerID          string          `json:"ownerId" gorm:"type:varchar(36);not null;index"`
	CartID           string          `json:"cartId" gorm:"type:varchar(36);not null"`
	Owner            *User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Items            []PaymentItem   `json:"order" gorm:"foreignKey:PaymentID"`
}

type PaymentItem struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	PaymentID string          `json:"-" gorm:"type:varchar(36);not null;index"`
	ProductID string          `json:"productId" gorm:"type:varchar(36);not null;index"`
	Name      string          `json:"name" gorm:"type:varchar(255)"`
	Quantity  int             `json:"qty" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
}

func (i PaymentItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
