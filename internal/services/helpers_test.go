package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"luxe/internal/config"
	"luxe/internal/database"
	"luxe/internal/models"
	"luxe/internal/repositories"
	"luxe/internal/services"
	"luxe/pkg/razorpay"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testGatewaySecret = "gateway_secret"
	testCurrency      = "INR"
)

// MockGateway mocks order creation and checks signatures with the real scheme.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, in razorpay.OrderRequest) (*razorpay.Order, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Order), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return razorpay.NewClient(razorpay.Config{KeySecret: testGatewaySecret}).VerifySignature(orderID, paymentID, signature)
}

type recordedEvent struct {
	Queue string
	Event services.Event
}

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(queue string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Queue: queue, Event: payload.(services.Event)})
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []services.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []services.Event
	for _, e := range p.events {
		if e.Event.Type == eventType {
			out = append(out, e.Event)
		}
	}
	return out
}

type testEnv struct {
	ctx       context.Context
	db        *gorm.DB
	repos     repositories.Repositories
	uow       repositories.UnitOfWork
	gateway   *MockGateway
	publisher *recordingPublisher
	tokens    *services.TokenService

	auth      *services.AuthService
	resets    *services.PasswordResetService
	products  *services.ProductService
	carts     *services.CartService
	payments  *services.PaymentService
	customers *services.CustomerService
	analytics *services.AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := database.OpenTest(t)
	repos := repositories.NewGORMRepositories(db)
	uow := repositories.NewGORMUnitOfWork(db)
	gateway := new(MockGateway)
	publisher := &recordingPublisher{}
	tokens := services.NewTokenService("access_secret", "refresh_secret", 15*time.Minute, time.Hour)
	storage := services.NewLocalFileStorage(t.TempDir(), "http://localhost:8080")
	carts := services.NewCartService(uow, repos.Carts, publisher)

	return &testEnv{
		ctx:       context.Background(),
		db:        db,
		repos:     repos,
		uow:       uow,
		gateway:   gateway,
		publisher: publisher,
		tokens:    tokens,
		auth:      services.NewAuthService(repos.Users, tokens, storage, (&config.Config{AdminUsernames: []string{"admin"}}).IsAdminUsername),
		resets:    services.NewPasswordResetService(uow, repos.Users, publisher, time.Hour, "http://localhost:5173/reset-password"),
		products:  services.NewProductService(repos.Products),
		carts:     carts,
		payments:  services.NewPaymentService(uow, repos.Carts, repos.Payments, carts, gateway, publisher, testCurrency),
		customers: services.NewCustomerService(repos.Users, repos.Carts, repos.Payments),
		analytics: services.NewAnalyticsService(repos.Users, repos.Payments),
	}
}

func (e *testEnv) registerUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.auth.RegisterUser(e.ctx, services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createProduct(t *testing.T, name string, price int64) *models.Product {
	t.Helper()
	product, err := e.products.CreateProduct(e.ctx, services.ProductInput{
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromInt(price),
		Discount:    "0%",
		Tag:         "new",
		Image:       "https://cdn.example.com/" + name + ".png",
	})
	require.NoError(t, err)
	return product
}

func (e *testEnv) reloadUser(t *testing.T, id string) *models.User {
	t.Helper()
	user, err := e.repos.Users.GetByID(e.ctx, id)
	require.NoError(t, err)
	return user
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
