package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/repositories"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
	topProductsLimit  = 5
)

var hundred = decimal.NewFromInt(100)

// DashboardSummary holds the headline figures for the window.
type DashboardSummary struct {
	TotalSales         decimal.Decimal `json:"totalSales"`
	TotalCustomers     int64           `json:"totalCustomers"`
	TotalOrders        int             `json:"totalOrders"`
	AvgOrderValue      decimal.Decimal `json:"avgOrderValue"`
	NewCustomers       int64           `json:"newCustomers"`
	PaymentSuccessRate decimal.Decimal `json:"paymentSuccessRate"`
}

// DashboardGrowth holds percentages rounded to two decimals.
type DashboardGrowth struct {
	Sales     decimal.Decimal `json:"sales"`
	Orders    decimal.Decimal `json:"orders"`
	Customers decimal.Decimal `json:"customers"`
}

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type CustomerTypeCount struct {
	CustomerType models.CustomerType `json:"customerType"`
	Count        int64               `json:"count"`
}

type TopProduct struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	WindowDays           int                 `json:"windowDays"`
	Summary              DashboardSummary    `json:"summary"`
	Growth               DashboardGrowth     `json:"growth"`
	MonthlyRevenue       []MonthlyRevenue    `json:"monthlyRevenue"`
	CustomerDistribution []CustomerTypeCount `json:"customerDistribution"`
	TopProducts          []TopProduct        `json:"topProducts"`
}

// AnalyticsService computes dashboard rollups from payments and users on demand.
type AnalyticsService struct {
	users    repositories.UserRepository
	payments repositories.PaymentRepository
	now      func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(users repositories.UserRepository, payments repositories.PaymentRepository) *AnalyticsService {
	return &AnalyticsService{users: users, payments: payments, now: time.Now}
}

// Dashboard computes the rollups for the trailing window of days (0 means 30),
// comparing against the window of equal length just before it.
func (s *AnalyticsService) Dashboard(ctx context.Context, days int) (*DashboardStats, error) {
	if days == 0 {
		days = defaultWindowDays
	}
	if days < 1 || days > maxWindowDays {
		return nil, apperror.Validation("days must be between 1 and 365")
	}

	now := s.now()
	window := time.Duration(days) * 24 * time.Hour
	from := now.Add(-window)
	prevFrom := from.Add(-window)

	current, err := s.payments.ListCreatedBetween(ctx, from, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.payments.ListCreatedBetween(ctx, prevFrom, from)
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	newCustomers, err := s.users.CountCreatedBetween(ctx, from, now)
	if err != nil {
		return nil, err
	}
	byType, err := s.users.CountByType(ctx)
	if err != nil {
		return nil, err
	}

	successful := filterSuccessful(current)
	sales := sumAmounts(successful)
	prevSuccessful := filterSuccessful(previous)
	prevSales := sumAmounts(prevSuccessful)

	stats := &DashboardStats{WindowDays: days}
	stats.Summary = DashboardSummary{
		TotalSales:         sales,
		TotalCustomers:     totalCustomers,
		TotalOrders:        len(successful),
		AvgOrderValue:      ratio(sales, decimal.NewFromInt(int64(len(successful))), decimal.NewFromInt(1)),
		NewCustomers:       newCustomers,
		PaymentSuccessRate: ratio(decimal.NewFromInt(int64(len(successful))), decimal.NewFromInt(int64(len(current))), hundred),
	}
	stats.Growth = DashboardGrowth{
		Sales:     growth(sales, prevSales),
		Orders:    growth(decimal.NewFromInt(int64(len(successful))), decimal.NewFromInt(int64(len(prevSuccessful)))),
		Customers: ratio(decimal.NewFromInt(newCustomers), decimal.NewFromInt(totalCustomers), hundred),
	}
	stats.MonthlyRevenue = monthlyRevenue(successful)
	stats.CustomerDistribution = []CustomerTypeCount{
		{CustomerType: models.CustomerTypeNew, Count: byType[models.CustomerTypeNew]},
		{CustomerType: models.CustomerTypeRegular, Count: byType[models.CustomerTypeRegular]},
		{CustomerType: models.CustomerTypeVIP, Count: byType[models.CustomerTypeVIP]},
	}
	stats.TopProducts = topProducts(successful, topProductsLimit)
	return stats, nil
}

func filterSuccessful(payments []models.Payment) []models.Payment {
	out := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if p.Status == models.PaymentStatusSuccessful {
			out = append(out, p)
		}
	}
	return out
}

// sumAmounts totals the item snapshots, which are authoritative for what was bought.
func sumAmounts(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		for _, item := range p.Items {
			total = total.Add(item.LineTotal())
		}
	}
	return total
}

// ratio returns num/den*scale rounded to two decimals, or zero when den is zero.
func ratio(num, den, scale decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Mul(scale).Div(den).Round(2)
}

// growth is the percentage change from prev to cur, zero when prev is zero.
func growth(cur, prev decimal.Decimal) decimal.Decimal {
	return ratio(cur.Sub(prev), prev, hundred)
}

func monthlyRevenue(payments []models.Payment) []MonthlyRevenue {
	buckets := map[string]*MonthlyRevenue{}
	for _, p := range payments {
		key := p.CreatedAt.UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyRevenue{Month: key, Revenue: decimal.Zero}
			buckets[key] = b
		}
		for _, item := range p.Items {
			b.Revenue = b.Revenue.Add(item.LineTotal())
		}
		b.Orders++
	}

	out := make([]MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func topProducts(payments []models.Payment, limit int) []TopProduct {
	byID := map[string]*TopProduct{}
	for _, p := range payments {
		for _, item := range p.Items {
			tp, ok := byID[item.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: item.ProductID, ProductName: item.Name, TotalRevenue: decimal.Zero}
				byID[item.ProductID] = tp
			}
			tp.TotalQuantity += item.Quantity
			tp.TotalRevenue = tp.TotalRevenue.Add(item.LineTotal())
		}
	}

	out := make([]TopProduct, 0, len(byID))
	for _, tp := range byID {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
