// Package menu turns navigation requests into screens: the photo, caption and
// inline keyboard shown for the main menu, info pages, catalog, product pages
// and the cart.
package menu

import "telegram-car-rental/internal/domain/ports/adapter"

// Navigation levels.
const (
	LevelMain     = 0
	LevelInfo     = 1 // catalog and static pages
	LevelProducts = 2
	LevelCart     = 3
	LevelAdmin    = 9
)

// Menu names carried in button payloads.
const (
	MenuMain      = "main"
	MenuAbout     = "about"
	MenuPayment   = "payment"
	MenuCatalog   = "catalog"
	MenuProducts  = "products"
	MenuCart      = "cart"
	MenuAddToCart = "add_to_cart"
	MenuDelete    = "delete"
	MenuDecrement = "decrement"
	MenuIncrement = "increment"
	MenuOrder     = "order"

	MenuAdminDelete   = "adm_delete"
	MenuAdminEdit     = "adm_edit"
	MenuAdminCategory = "adm_category"
)

// NavigationRequest is the decoded form of a button press.
type NavigationRequest struct {
	Level     int
	Menu      string
	Category  *int64
	Page      int
	ProductID *int64
	UserID    *int64
}

// ID returns a pointer to v, for optional request fields.
func ID(v int64) *int64 { return &v }

// Screen is a resolved menu view.
type Screen struct {
	Image    string // Telegram file id, may be empty
	Caption  string // HTML
	Keyboard [][]adapter.Button
}
