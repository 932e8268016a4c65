package models

// CategoryGeneral is the sentinel category for items created without one.
const CategoryGeneral = "General"

// MenuItem belongs to exactly one shop; ShopID never changes after creation.
// Price is a whole amount rendered with the shop's currency symbol.
type MenuItem struct {
	ID          string `json:"id"`
	ShopID      string `json:"shop_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	ImageFileID string `json:"image_file_id,omitempty"`
}
