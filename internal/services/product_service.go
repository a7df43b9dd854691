package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/repositories"
	"luxe/internal/utils"
)

// ProductInput is the payload for creating a product. Every field is required.
type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Discount    string          `json:"discount" validate:"required"`
	Tag         string          `json:"tag" validate:"required"`
	Image       string          `json:"image" validate:"required"`
}

// ProductUpdate is a partial product update. Nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *string          `json:"discount"`
	Tag         *string          `json:"tag"`
	Image       *string          `json:"image"`
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Products      []models.Product `json:"products"`
	TotalProducts int64            `json:"totalProducts"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int              `json:"totalPages"`
}

var productSorts = map[string]string{
	"createdAt":  "created_at asc",
	"-createdAt": "created_at desc",
	"price":      "price asc",
	"-price":     "price desc",
	"name":       "name asc",
	"-name":      "name desc",
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductPage retrieves one page of products in the requested order.
func (s *ProductService) GetProductPage(ctx context.Context, p utils.Pagination, sort string) (*ProductPage, error) {
	if sort == "" {
		sort = "createdAt"
	}
	orderBy, ok := productSorts[sort]
	if !ok {
		return nil, apperror.Validation("Invalid sort field", sort)
	}

	products, total, err := s.repo.Page(ctx, p.Offset, p.Limit, orderBy)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products:      products,
		TotalProducts: total,
		CurrentPage:   p.Page,
		TotalPages:    p.TotalPages(total),
	}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Discount:    strings.TrimSpace(in.Discount),
		Tag:         strings.TrimSpace(in.Tag),
		Image:       strings.TrimSpace(in.Image),
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update; the result must still be a valid product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductUpdate) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&product.Name, in.Name)
	apply(&product.Description, in.Description)
	apply(&product.Discount, in.Discount)
	apply(&product.Tag, in.Tag)
	apply(&product.Image, in.Image)
	if in.Price != nil {
		product.Price = *in.Price
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// maxPrice is the largest value the price column can hold.
var maxPrice = decimal.RequireFromString("9999999999.99")

func validateProduct(p *models.Product) error {
	in := ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Discount:    p.Discount,
		Tag:         p.Tag,
		Image:       p.Image,
	}
	if err := validateStruct("All fields are required", in); err != nil {
		return err
	}
	if !p.Price.IsPositive() {
		return apperror.Validation("Price must be a positive number")
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return apperror.Validation("Price cannot have more than two decimal places")
	}
	if p.Price.GreaterThan(maxPrice) {
		return apperror.Validation("Price is too large")
	}
	return nil
}
