package services_test

import (
	"context"
	"fmt"
	"testing"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/services"
	"luxe/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Page(ctx context.Context, offset, limit int, orderBy string) ([]models.Product, int64, error) {
	args := m.Called(ctx, offset, limit, orderBy)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validProductInput() services.ProductInput {
	return services.ProductInput{
		Name:        "Silk Scarf",
		Description: "Hand-rolled edges",
		Price:       decimal.NewFromInt(20),
		Discount:    "10%",
		Tag:         "accessories",
		Image:       "https://cdn.example.com/scarf.png",
	}
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	expectedProducts := []models.Product{
		{Base: models.Base{ID: "1"}, Name: "Product A", Price: decimal.NewFromInt(10)},
		{Base: models.Base{ID: "2"}, Name: "Product B", Price: decimal.NewFromInt(20)},
	}

	mockRepo.On("GetAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	expectedProduct := &models.Product{Base: models.Base{ID: "1"}, Name: "Product A", Price: decimal.NewFromInt(10)}

	mockRepo.On("GetByID", ctx, "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", ctx, "99").Return(nil, apperror.NotFound("Product not found")).Once()
	product, err = service.GetProductByID(ctx, "99")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	product, err := service.CreateProduct(ctx, validProductInput())
	require.NoError(t, err)
	assert.Equal(t, "Silk Scarf", product.Name)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(fmt.Errorf("database error")).Once()
	_, err = service.CreateProduct(ctx, validProductInput())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProductRejectsBlankFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	blanks := map[string]func(*services.ProductInput){
		"name":        func(in *services.ProductInput) { in.Name = "  " },
		"description": func(in *services.ProductInput) { in.Description = "" },
		"discount":    func(in *services.ProductInput) { in.Discount = "" },
		"tag":         func(in *services.ProductInput) { in.Tag = "" },
		"image":       func(in *services.ProductInput) { in.Image = "" },
		"price":       func(in *services.ProductInput) { in.Price = decimal.Zero },
		"negative":    func(in *services.ProductInput) { in.Price = decimal.NewFromInt(-5) },
		"sub-cent":    func(in *services.ProductInput) { in.Price = decimal.RequireFromString("10.005") },
		"too large":   func(in *services.ProductInput) { in.Price = decimal.RequireFromString("10000000000") },
	}
	for name, mutate := range blanks {
		t.Run(name, func(t *testing.T) {
			in := validProductInput()
			mutate(&in)
			_, err := service.CreateProduct(context.Background(), in)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	existing := &models.Product{
		Base:        models.Base{ID: "1"},
		Name:        "Product A",
		Description: "desc",
		Price:       decimal.NewFromInt(10),
		Discount:    "0%",
		Tag:         "tag",
		Image:       "img",
	}
	newName := "Product A Updated"
	newPrice := decimal.NewFromInt(12)

	mockRepo.On("GetByID", ctx, "1").Return(existing, nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == newName && p.Price.Equal(newPrice) && p.Tag == "tag"
	})).Return(nil).Once()

	product, err := service.UpdateProduct(ctx, "1", services.ProductUpdate{Name: &newName, Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newName, product.Name)

	blank := ""
	mockRepo.On("GetByID", ctx, "1").Return(existing, nil).Once()
	_, err = service.UpdateProduct(ctx, "1", services.ProductUpdate{Image: &blank})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	mockRepo.On("GetByID", ctx, "99").Return(nil, apperror.NotFound("Product not found")).Once()
	_, err = service.UpdateProduct(ctx, "99", services.ProductUpdate{Name: &newName})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "1").Return(nil).Once()
	err := service.DeleteProduct(ctx, "1")
	assert.NoError(t, err)

	mockRepo.On("Delete", ctx, "99").Return(apperror.NotFound("Product not found")).Once()
	err = service.DeleteProduct(ctx, "99")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductPage(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	products := []models.Product{{Base: models.Base{ID: "3"}, Name: "C"}}
	mockRepo.On("Page", ctx, 10, 10, "price desc").Return(products, int64(21), nil).Once()

	page, err := service.GetProductPage(ctx, utils.NewPagination(2, 10, 10), "-price")
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.TotalProducts)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, products, page.Products)

	_, err = service.GetProductPage(ctx, utils.NewPagination(1, 10, 10), "stock")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	mockRepo.AssertExpectations(t)
}
