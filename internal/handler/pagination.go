package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"catimporter/backend/internal/apperr"
	"catimporter/backend/internal/service"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse creates a new PaginatedResponse.
func NewPaginatedResponse[T any](data []T, totalItems int64, page, limit int) PaginatedResponse[T] {
	if limit <= 0 {
		limit = 1
	}
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  totalItems,
			TotalPages:  int((totalItems + int64(limit) - 1) / int64(limit)),
			CurrentPage: page,
			PageSize:    limit,
		},
	}
}

func newPageResponse[T any](p *service.Page[T]) PaginatedResponse[T] {
	return NewPaginatedResponse(p.Items, p.Total, p.Page, p.PageSize)
}

// pageParams reads page and pageSize from the query string. Range checks
// are left to the service; only non-numeric input is rejected here.
func pageParams(c *gin.Context) (int, int, error) {
	page, err := intQuery(c, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := intQuery(c, "pageSize", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", apperr.ErrValidation, key, raw)
	}
	return n, nil
}
