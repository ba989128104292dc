package models

// Item is a catalog entry. Description is nil when the item has none.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}
