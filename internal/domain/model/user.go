package model

import (
	"strings"
	"time"

	"telegram-car-rental/internal/domain"
)

// User is a registered customer, keyed by the Telegram user id.
type User struct {
	ID           int64
	TelegramID   int64
	FirstName    string
	LastName     string
	Phone        string
	RegisteredAt time.Time
}

func NewUser(tgID int64, firstName, lastName, phone string) (*User, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(phone) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		TelegramID:   tgID,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		RegisteredAt: time.Now(),
	}, nil
}
