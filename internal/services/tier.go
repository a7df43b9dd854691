package services

import (
	"github.com/shopspring/decimal"

	"luxe/internal/models"
)

var (
	vipSpend     = decimal.NewFromInt(1000)
	regularSpend = decimal.NewFromInt(500)
)

const (
	vipOrders     = 10
	regularOrders = 5
)

// ClassifyCustomer returns the tier earned by the given lifetime spend and order count.
func ClassifyCustomer(totalSpent decimal.Decimal, totalOrders int) models.CustomerType {
	switch {
	case totalSpent.GreaterThanOrEqual(vipSpend) && totalOrders >= vipOrders:
		return models.CustomerTypeVIP
	case totalSpent.GreaterThanOrEqual(regularSpend) && totalOrders >= regularOrders:
		return models.CustomerTypeRegular
	default:
		return models.CustomerTypeNew
	}
}
