package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"luxe/internal/models"
)

// UserFilter narrows and orders a customer listing.
type UserFilter struct {
	CustomerType   models.CustomerType
	CustomerStatus models.CustomerStatus
	OrderBy        string
	Offset         int
	Limit          int
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	IncrementAggregates(ctx context.Context, id string, amount decimal.Decimal) error
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByType(ctx context.Context) (map[models.CustomerType]int64, error)
}
