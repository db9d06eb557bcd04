package model

// Category groups products in the catalog. Categories are seed data.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
