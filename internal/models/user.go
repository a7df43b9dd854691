package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerType string

const (
	CustomerTypeNew     CustomerType = "new"
	CustomerTypeRegular CustomerType = "regular"
	CustomerTypeVIP     CustomerType = "vip"
)

// Rank orders customer tiers from lowest to highest.
func (t CustomerType) Rank() int {
	switch t {
	case CustomerTypeVIP:
		return 2
	case CustomerTypeRegular:
		return 1
	default:
		return 0
	}
}

func (t CustomerType) Valid() bool {
	return t == CustomerTypeNew || t == CustomerTypeRegular || t == CustomerTypeVIP
}

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

func (s CustomerStatus) Valid() bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a store account. Aggregate counters only ever grow.
type User struct {
	Base
	Username       string          `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email          string          `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	FullName       string          `json:"fullname" gorm:"type:varchar(255);not null;index"`
	Address        string          `json:"address"`
	Avatar         string          `json:"avatar"`
	Password       string          `json:"-" gorm:"type:varchar(255);not null"`
	RefreshToken   string          `json:"-" gorm:"type:text"`
	Role           Role            `json:"role" gorm:"type:varchar(20);not null;default:customer"`
	CustomerStatus CustomerStatus  `json:"customerStatus" gorm:"type:varchar(20);not null;default:active;index"`
	CustomerType   CustomerType    `json:"customerType" gorm:"type:varchar(20);not null;default:new;index"`
	LastLoginAt    *time.Time      `json:"lastLoginDate"`
	TotalOrders    int             `json:"totalOrders" gorm:"not null;default:0"`
	TotalSpent     decimal.Decimal `json:"totalSpent" gorm:"type:numeric(14,2);not null;default:0"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
