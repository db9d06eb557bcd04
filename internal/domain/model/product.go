package model

import (
	"math"
	"strings"
	"unicode/utf8"

	"telegram-car-rental/internal/domain"
)

// MaxProductNameLen is the longest product name accepted, in characters.
const MaxProductNameLen = 100

// Price bounds of the NUMERIC(12,2) column.
const (
	MaxProductPrice = 9999999999.99
	PriceScale      = 2
)

// ProductStatus tells whether a vehicle can currently be rented.
type ProductStatus string

const (
	StatusAvailable ProductStatus = "свободен"
	StatusOccupied  ProductStatus = "занят"
)

// ParseProductStatus accepts the Russian labels (any case) and their English aliases.
func ParseProductStatus(s string) (ProductStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(StatusAvailable), "available":
		return StatusAvailable, nil
	case string(StatusOccupied), "occupied":
		return StatusOccupied, nil
	}
	return "", domain.ErrInvalidArgument
}

// Product is a rental vehicle listed in a category.
type Product struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Image       string        `json:"image"`
	Status      ProductStatus `json:"status"`
	CategoryID  int64         `json:"category_id"`
}

func NewProduct(name, description string, price float64, image string, status ProductStatus, categoryID int64) (*Product, error) {
	p := &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
		Status:      status,
		CategoryID:  categoryID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants every stored product must hold.
func (p *Product) Validate() error {
	if p.Name == "" || utf8.RuneCountInString(p.Name) > MaxProductNameLen {
		return domain.ErrInvalidArgument
	}
	if p.Price < 0 || p.Price > MaxProductPrice || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return domain.ErrInvalidArgument
	}
	if p.Status != StatusAvailable && p.Status != StatusOccupied {
		return domain.ErrInvalidArgument
	}
	if p.CategoryID <= 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}

func (p *Product) IsAvailable() bool { return p.Status == StatusAvailable }
