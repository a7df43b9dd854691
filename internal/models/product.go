package models

import "github.com/shopspring/decimal"

// Product represents a catalog entry. Line items reference it by ID only.
type Product struct {
	Base
	Name        string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Discount    string          `json:"discount" gorm:"type:varchar(50);not null"`
	Tag         string          `json:"tag" gorm:"type:varchar(100);not null"`
	Image       string          `json:"image" gorm:"type:text;not null"`
}
