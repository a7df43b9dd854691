package services_test

import (
	"testing"
	"time"

	"luxe/internal/apperror"
	"luxe/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPayment(t *testing.T, env *testEnv, ownerID string, status models.PaymentStatus, at time.Time, items ...models.PaymentItem) {
	t.Helper()
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	payment := &models.Payment{
		Base:             models.Base{CreatedAt: at, UpdatedAt: at},
		GatewayOrderID:   "order_" + uuid.NewString(),
		GatewayPaymentID: "pay_" + uuid.NewString(),
		Signature:        "sig",
		Status:           status,
		Amount:           total,
		Currency:         testCurrency,
		OwnerID:          ownerID,
		CartID:           uuid.NewString(),
		Items:            items,
	}
	require.NoError(t, env.repos.Payments.Create(env.ctx, payment))
}

func item(productID, name string, qty int, price int64) models.PaymentItem {
	return models.PaymentItem{ProductID: productID, Name: name, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().Add(time.Minute)
	env.analytics.SetClock(func() time.Time { return now })
	user := env.registerUser(t, "alice")
	day := 24 * time.Hour

	seedPayment(t, env, user.ID, models.PaymentStatusSuccessful, now.Add(-1*day), item("a", "A", 2, 10), item("b", "B", 1, 50))
	seedPayment(t, env, user.ID, models.PaymentStatusSuccessful, now.Add(-2*day), item("a", "A", 3, 10))
	seedPayment(t, env, user.ID, models.PaymentStatusFailed, now.Add(-3*day), item("b", "B", 1, 50))
	seedPayment(t, env, user.ID, models.PaymentStatusSuccessful, now.Add(-40*day), item("a", "A", 5, 10))

	stats, err := env.analytics.Dashboard(env.ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 30, stats.WindowDays)
	assertDecimal(t, "100", stats.Summary.TotalSales)
	assert.Equal(t, 2, stats.Summary.TotalOrders)
	assertDecimal(t, "50", stats.Summary.AvgOrderValue)
	assert.Equal(t, int64(1), stats.Summary.TotalCustomers)
	assert.Equal(t, int64(1), stats.Summary.NewCustomers)
	assertDecimal(t, "66.67", stats.Summary.PaymentSuccessRate)

	assertDecimal(t, "100", stats.Growth.Sales)
	assertDecimal(t, "100", stats.Growth.Orders)
	assertDecimal(t, "100", stats.Growth.Customers)

	revenue := decimal.Zero
	orders := 0
	for _, m := range stats.MonthlyRevenue {
		revenue = revenue.Add(m.Revenue)
		orders += m.Orders
	}
	assertDecimal(t, "100", revenue)
	assert.Equal(t, 2, orders)

	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, "a", stats.TopProducts[0].ProductID)
	assert.Equal(t, "A", stats.TopProducts[0].ProductName)
	assert.Equal(t, 5, stats.TopProducts[0].TotalQuantity)
	assertDecimal(t, "50", stats.TopProducts[0].TotalRevenue)

	require.Len(t, stats.CustomerDistribution, 3)
	assert.Equal(t, models.CustomerTypeNew, stats.CustomerDistribution[0].CustomerType)
	assert.Equal(t, int64(1), stats.CustomerDistribution[0].Count)
}

func TestAnalyticsService_DashboardEmpty(t *testing.T) {
	env := newTestEnv(t)

	stats, err := env.analytics.Dashboard(env.ctx, 7)
	require.NoError(t, err)
	assertDecimal(t, "0", stats.Summary.TotalSales)
	assertDecimal(t, "0", stats.Summary.AvgOrderValue)
	assertDecimal(t, "0", stats.Summary.PaymentSuccessRate)
	assertDecimal(t, "0", stats.Growth.Customers)
	assert.Empty(t, stats.TopProducts)
	assert.Empty(t, stats.MonthlyRevenue)
}

func TestAnalyticsService_DashboardRejectsBadWindow(t *testing.T) {
	env := newTestEnv(t)

	for _, days := range []int{-1, 366} {
		_, err := env.analytics.Dashboard(env.ctx, days)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	}
}
