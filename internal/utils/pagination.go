package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const maxLimit = 100

// Pagination holds pagination parameters.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// NewPagination clamps page and limit and derives the offset.
func NewPagination(page, limit, defaultLimit int) Pagination {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page <= 0 {
		page = 1
	}
	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParsePagination reads page and limit query params with sane defaults.
func ParsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	page := parseInt(c.Query("page", "1"), 1)
	limit := parseInt(c.Query("limit", strconv.Itoa(defaultLimit)), defaultLimit)
	return NewPagination(page, limit, defaultLimit)
}

// TotalPages is the number of pages needed for total rows.
func (p Pagination) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
