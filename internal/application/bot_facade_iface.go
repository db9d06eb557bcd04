package application

import (
	"context"

	"telegram-car-rental/internal/form"
	"telegram-car-rental/internal/menu"
)

// ---- small interfaces to decouple the facade from concrete structs ----
// Use cases are consumed through their own interfaces in package usecase.

type FormEngine interface {
	Start(ctx context.Context, convID int64, name string, prefill *form.Prefill) (*form.Reply, error)
	Submit(ctx context.Context, convID int64, in form.Input) (*form.Reply, error)
	Back(ctx context.Context, convID int64) (*form.Reply, error)
	Cancel(ctx context.Context, convID int64) error
	Current(ctx context.Context, convID int64) (*form.Reply, error)
}

type MenuResolver interface {
	Resolve(ctx context.Context, req menu.NavigationRequest) (*menu.Screen, error)
	AdminProducts(ctx context.Context, categoryID int64) ([]*menu.Screen, error)
	AdminCategories(ctx context.Context) (*menu.Screen, error)
}

type Texts interface {
	T(key string, args ...interface{}) string
}

var (
	_ FormEngine   = (*form.Engine)(nil)
	_ MenuResolver = (*menu.Resolver)(nil)
)
