package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"luxe/internal/apperror"
	"luxe/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "user not found", "create user")
	}
	return nil
}

func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, translate(err, "user not found", "get user")
	}
	return &user, nil
}

// Update writes only the given columns.
func (r *GORMUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "user not found", "update user")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

// IncrementAggregates adds one order and amount to the user's counters in a single statement.
func (r *GORMUserRepository) IncrementAggregates(ctx context.Context, id string, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_orders": gorm.Expr("total_orders + ?", 1),
		"total_spent":  gorm.Expr("total_spent + ?", amount.StringFixed(2)),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to increment aggregates for user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *GORMUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.CustomerType != "" {
		query = query.Where("customer_type = ?", filter.CustomerType)
	}
	if filter.CustomerStatus != "" {
		query = query.Where("customer_status = ?", filter.CustomerStatus)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at desc"
	}
	var users []models.User
	if err := query.Order(orderBy).Offset(filter.Offset).Limit(filter.Limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *GORMUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *GORMUserRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count new users: %w", err)
	}
	return n, nil
}

func (r *GORMUserRepository) CountByType(ctx context.Context) (map[models.CustomerType]int64, error) {
	var rows []struct {
		CustomerType models.CustomerType
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("customer_type, count(*) as count").
		Group("customer_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group users by type: %w", err)
	}

	out := make(map[models.CustomerType]int64, len(rows))
	for _, row := range rows {
		out[row.CustomerType] = row.Count
	}
	return out, nil
}
