package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"luxe/internal/apperror"
)

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Users          UserRepository
	Products       ProductRepository
	Carts          CartRepository
	Payments       PaymentRepository
	PasswordResets PasswordResetRepository
}

// NewGORMRepositories binds all GORM repositories to db.
func NewGORMRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:          NewGORMUserRepository(db),
		Products:       NewGORMProductRepository(db),
		Carts:          NewGORMCartRepository(db),
		Payments:       NewGORMPaymentRepository(db),
		PasswordResets: NewGORMPasswordResetRepository(db),
	}
}

// UnitOfWork runs fn with repositories that share one transaction. Returning
// an error from fn rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

// GORMUnitOfWork is a GORM implementation of UnitOfWork.
type GORMUnitOfWork struct {
	db *gorm.DB
}

// NewGORMUnitOfWork creates a new instance of GORMUnitOfWork.
func NewGORMUnitOfWork(db *gorm.DB) *GORMUnitOfWork {
	return &GORMUnitOfWork{db: db}
}

func (u *GORMUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepositories(tx))
	})
}

// translate maps GORM sentinel errors to application errors.
func translate(err error, notFoundMsg, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(fmt.Sprintf("%s: duplicate record", op))
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
