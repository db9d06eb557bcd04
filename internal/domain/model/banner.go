package model

// Info page keys. Each has a seeded banner row.
const (
	PageMain    = "main"
	PageAbout   = "about"
	PagePayment = "payment"
	PageCatalog = "catalog"
	PageCart    = "cart"
)

// InfoPages lists the page keys in display order.
var InfoPages = []string{PageMain, PageAbout, PagePayment, PageCatalog, PageCart}

// Banner is the picture and description shown on an info page.
type Banner struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (b *Banner) HasImage() bool { return b != nil && b.Image != "" }
