//go:build !integration

package model

import (
	"errors"
	"strings"
	"testing"

	"telegram-car-rental/internal/domain"
)

// --- Product Model Tests ---

func TestNewProduct(t *testing.T) {
	t.Run("should create a product with a 100 character name", func(t *testing.T) {
		name := strings.Repeat("ж", MaxProductNameLen)
		p, err := NewProduct(name, "desc", 19.99, "photo", StatusAvailable, 1)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if p.Name != name {
			t.Errorf("expected name to be kept")
		}
		if !p.IsAvailable() {
			t.Error("expected product to be available")
		}
	})

	t.Run("should reject a 101 character name", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("a", MaxProductNameLen+1), "desc", 1, "", StatusAvailable, 1)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject a negative price", func(t *testing.T) {
		_, err := NewProduct("Lada", "desc", -1, "", StatusAvailable, 1)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject a price above the column range", func(t *testing.T) {
		if _, err := NewProduct("Lada", "desc", MaxProductPrice, "", StatusAvailable, 1); err != nil {
			t.Errorf("expected max price to be accepted, got %v", err)
		}
		_, err := NewProduct("Lada", "desc", MaxProductPrice*10, "", StatusAvailable, 1)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		_, err := NewProduct("Lada", "desc", 1, "", ProductStatus("broken"), 1)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject a missing category", func(t *testing.T) {
		_, err := NewProduct("Lada", "desc", 1, "", StatusOccupied, 0)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseProductStatus(t *testing.T) {
	cases := map[string]ProductStatus{
		"свободен":   StatusAvailable,
		" Свободен ": StatusAvailable,
		"ЗАНЯТ":      StatusOccupied,
		"available":  StatusAvailable,
		"occupied":   StatusOccupied,
	}
	for in, want := range cases {
		got, err := ParseProductStatus(in)
		if err != nil {
			t.Errorf("ParseProductStatus(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseProductStatus(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseProductStatus("free"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown status, got %v", err)
	}
}

// --- User Model Tests ---

func TestNewUser(t *testing.T) {
	u, err := NewUser(42, "Ivan", "Petrov", "+79990000000")
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if u.TelegramID != 42 || u.Phone != "+79990000000" {
		t.Errorf("unexpected user: %+v", u)
	}

	if _, err := NewUser(0, "Ivan", "Petrov", "+7999"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero telegram id, got %v", err)
	}
	if _, err := NewUser(42, "Ivan", "Petrov", " "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty phone, got %v", err)
	}
}

// --- Cart Model Tests ---

func TestCartTotal(t *testing.T) {
	items := []*CartItem{
		{Quantity: 2, Product: &Product{Price: 10}},
		{Quantity: 1, Product: &Product{Price: 2.5}},
		{Quantity: 3},
	}
	if got := CartTotal(items); got != 22.5 {
		t.Errorf("expected total 22.5, got %v", got)
	}

	item, err := NewCartItem(1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != 1 {
		t.Errorf("expected new cart item quantity 1, got %d", item.Quantity)
	}
	if _, err := NewCartItem(0, 2); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
