package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCompleted CartStatus = "completed"
	CartStatusAbandoned CartStatus = "abandoned"
)

// Cart is a user's pre-checkout basket. Only one cart per owner is active;
// completed and abandoned carts are terminal and never reused.
type Cart struct {
	Base
	OwnerID     string     `json:"owner" gorm:"type:varchar(36);not null;index:idx_cart_owner_status;uniqueIndex:idx_cart_active_owner,where:status = 'active'"`
	Status      CartStatus `json:"status" gorm:"type:varchar(20);not null;index:idx_cart_owner_status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Items       []CartItem `json:"products" gorm:"foreignKey:CartID"`
}

// Total sums price x quantity over the captured line-item prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CartItem holds a product reference and the unit price at add time.
type CartItem struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	CartID    string          `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item_product"`
	ProductID string          `json:"productId" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item_product"`
	Quantity  int             `json:"qty" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
