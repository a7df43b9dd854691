package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"luxe/internal/apperror"
	"luxe/internal/database"
	"luxe/internal/models"
	"luxe/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCart(t *testing.T, repos repositories.Repositories, ownerID string) *models.Cart {
	t.Helper()
	cart := &models.Cart{OwnerID: ownerID, Status: models.CartStatusActive}
	require.NoError(t, repos.Carts.Create(context.Background(), cart))
	return cart
}

func TestCartRepository_ItemsAndTransitions(t *testing.T) {
	ctx := context.Background()
	repos := repositories.NewGORMRepositories(database.OpenTest(t))
	owner := uuid.New().String()

	product := &models.Product{Name: "Silk Scarf", Description: "d", Price: decimal.NewFromInt(20), Discount: "0", Tag: "t", Image: "i"}
	require.NoError(t, repos.Products.Create(ctx, product))

	cart := newCart(t, repos, owner)
	require.NoError(t, repos.Carts.AddItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1, Price: product.Price}))

	ok, err := repos.Carts.IncrementItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Carts.IncrementItem(ctx, cart.ID, "other", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	active, err := repos.Carts.GetActive(ctx, owner)
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, 3, active.Items[0].Quantity)
	require.NotNil(t, active.Items[0].Product)
	assert.Equal(t, "Silk Scarf", active.Items[0].Product.Name)
	assert.True(t, decimal.NewFromInt(60).Equal(active.Total()))

	changed, err := repos.Carts.MarkCompleted(ctx, cart.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repos.Carts.MarkCompleted(ctx, cart.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repos.Carts.MarkAbandoned(ctx, cart.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repos.Carts.MarkCompleted(ctx, "missing", time.Now())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = repos.Carts.GetActive(ctx, owner)
	assert.True(t, repositories.IsNotFound(err))

	completed, err := repos.Carts.ListByOwner(ctx, owner, models.CartStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Len(t, completed[0].Items, 1)
}

func TestCartRepository_OneActiveCartPerOwner(t *testing.T) {
	ctx := context.Background()
	repos := repositories.NewGORMRepositories(database.OpenTest(t))
	owner := uuid.New().String()

	first := newCart(t, repos, owner)

	err := repos.Carts.Create(ctx, &models.Cart{OwnerID: owner, Status: models.CartStatusActive})
	assert.Error(t, err)

	_, err = repos.Carts.MarkAbandoned(ctx, first.ID)
	require.NoError(t, err)
	newCart(t, repos, owner)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	repos := repositories.NewGORMRepositories(db)
	uow := repositories.NewGORMUnitOfWork(db)
	owner := uuid.New().String()

	boom := errors.New("boom")
	err := uow.Do(ctx, func(tx repositories.Repositories) error {
		if err := tx.Carts.Create(ctx, &models.Cart{OwnerID: owner, Status: models.CartStatusActive}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Carts.GetActive(ctx, owner)
	assert.True(t, repositories.IsNotFound(err))

	err = uow.Do(ctx, func(tx repositories.Repositories) error {
		return tx.Carts.Create(ctx, &models.Cart{OwnerID: owner, Status: models.CartStatusActive})
	})
	require.NoError(t, err)

	_, err = repos.Carts.GetActive(ctx, owner)
	assert.NoError(t, err)
}
